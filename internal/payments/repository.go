package payments

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/eazeinn/accounts/internal/platform/jsonstore"
)

const paymentsFile = "payments.json"

type paymentDoc struct {
	ID         int64  `json:"id"`
	Kind       string `json:"kind"`
	DocID      int64  `json:"invoice_id"`
	AmountPaid string `json:"amount_paid"`
	Method     string `json:"method,omitempty"`
	PaidAt     string `json:"paid_at"`
}

// Repository reads and writes the payment collection.
type Repository struct {
	path     string
	logger   *slog.Logger
	recorder jsonstore.CoercionRecorder
}

// NewRepository builds a Repository rooted at dataDir.
func NewRepository(dataDir string, logger *slog.Logger, recorder jsonstore.CoercionRecorder) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{path: filepath.Join(dataDir, paymentsFile), logger: logger, recorder: recorder}
}

// Load decodes the collection with the lenient numeric policy.
func (r *Repository) Load() ([]Payment, []jsonstore.FieldWarning, error) {
	var docs []paymentDoc
	if err := jsonstore.Load(r.path, &docs); err != nil {
		return nil, nil, fmt.Errorf("payments: load: %w", err)
	}
	coercer := &jsonstore.Coercer{Collection: "payments", Logger: r.logger, Recorder: r.recorder}
	out := make([]Payment, 0, len(docs))
	for _, doc := range docs {
		p := Payment{
			ID:     doc.ID,
			Kind:   DocKind(doc.Kind),
			DocID:  doc.DocID,
			Amount: coercer.Decimal(doc.ID, "amount_paid", doc.AmountPaid),
			Method: doc.Method,
		}
		if ts, ok := jsonstore.ParseTime(doc.PaidAt); ok {
			p.PaidAt = ts
		}
		out = append(out, p)
	}
	return out, coercer.Warnings(), nil
}

// Save rewrites the collection atomically.
func (r *Repository) Save(pays []Payment) error {
	docs := make([]paymentDoc, 0, len(pays))
	for _, p := range pays {
		docs = append(docs, paymentDoc{
			ID:         p.ID,
			Kind:       string(p.Kind),
			DocID:      p.DocID,
			AmountPaid: p.Amount.String(),
			Method:     p.Method,
			PaidAt:     jsonstore.FormatTime(p.PaidAt),
		})
	}
	if err := jsonstore.Save(r.path, docs); err != nil {
		return fmt.Errorf("payments: save: %w", err)
	}
	return nil
}
