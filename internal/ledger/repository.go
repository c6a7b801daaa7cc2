package ledger

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/eazeinn/accounts/internal/platform/jsonstore"
)

const collection = "inventory"

// recordDoc is the wire form of a Record in inventory.json. Numeric fields
// are strings; "value" carries the unit cost.
type recordDoc struct {
	ID          int64  `json:"id"`
	ItemName    string `json:"item_name"`
	Quantity    string `json:"quantity"`
	Value       string `json:"value"`
	LastUpdated string `json:"last_updated"`
	StatusFlag  string `json:"status_flag,omitempty"`
}

// Repository reads and writes the inventory collection as a whole.
type Repository struct {
	path     string
	logger   *slog.Logger
	recorder jsonstore.CoercionRecorder
}

// NewRepository builds a Repository over the given inventory file.
func NewRepository(path string, logger *slog.Logger, recorder jsonstore.CoercionRecorder) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{path: path, logger: logger, recorder: recorder}
}

// Load decodes the whole collection. Unparseable numeric fields are coerced
// to zero with a warning rather than dropping the record; the warnings are
// returned so callers and tests can observe the policy firing.
func (r *Repository) Load() ([]Record, []jsonstore.FieldWarning, error) {
	var docs []recordDoc
	if err := jsonstore.Load(r.path, &docs); err != nil {
		return nil, nil, fmt.Errorf("ledger: load inventory: %w", err)
	}
	coercer := &jsonstore.Coercer{Collection: collection, Logger: r.logger, Recorder: r.recorder}
	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		rec := Record{
			ID:         doc.ID,
			ItemName:   doc.ItemName,
			Quantity:   coercer.Decimal(doc.ID, "quantity", doc.Quantity),
			UnitCost:   coercer.Decimal(doc.ID, "value", doc.Value),
			StatusFlag: StatusFlag(doc.StatusFlag),
		}
		if ts, ok := jsonstore.ParseTime(doc.LastUpdated); ok {
			rec.LastUpdated = ts
		} else if doc.LastUpdated != "" {
			r.logger.Warn("invalid inventory timestamp ignored",
				slog.Int64("record_id", doc.ID),
				slog.String("raw", doc.LastUpdated))
		}
		records = append(records, rec)
	}
	return records, coercer.Warnings(), nil
}

// Save rewrites the whole collection atomically.
func (r *Repository) Save(records []Record) error {
	docs := make([]recordDoc, 0, len(records))
	for _, rec := range records {
		docs = append(docs, recordDoc{
			ID:          rec.ID,
			ItemName:    rec.ItemName,
			Quantity:    rec.Quantity.String(),
			Value:       rec.UnitCost.String(),
			LastUpdated: formatUpdated(rec.LastUpdated),
			StatusFlag:  string(rec.StatusFlag),
		})
	}
	if err := jsonstore.Save(r.path, docs); err != nil {
		return fmt.Errorf("ledger: save inventory: %w", err)
	}
	return nil
}

func formatUpdated(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return jsonstore.FormatTime(t)
}
