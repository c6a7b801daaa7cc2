package payments

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eazeinn/accounts/internal/platform/jsonstore"
)

// ReceivablesPort exposes the customer invoice operations payments need.
type ReceivablesPort interface {
	InvoiceTotal(id int64) (decimal.Decimal, error)
	MarkPaid(id int64) error
}

// PayablesPort exposes the supplier bill operations payments need.
type PayablesPort interface {
	BillTotal(id int64) (decimal.Decimal, error)
	MarkPaid(id int64) error
}

// Service records settlements and rolls payment status up to the documents.
type Service struct {
	mu          sync.Mutex
	repo        *Repository
	receivables ReceivablesPort
	payables    PayablesPort
	logger      *slog.Logger
	payments    []Payment
	clock       func() time.Time
}

// NewService loads the payment collection and builds the service.
func NewService(repo *Repository, receivables ReceivablesPort, payables PayablesPort, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{repo: repo, receivables: receivables, payables: payables, logger: logger, clock: time.Now}
	pays, _, err := repo.Load()
	if err != nil {
		logger.Error("payment load failed, starting empty", slog.Any("error", err))
		pays = nil
	}
	s.payments = pays
	return s
}

// Record saves one payment and marks the referenced document PAID once the
// cumulative payments cover its total.
func (s *Service) Record(ctx context.Context, input RecordInput) (RecordResult, error) {
	if input.Kind != DocCustomer && input.Kind != DocSupplier {
		return RecordResult{}, fmt.Errorf("%w: kind must be CUSTOMER or SUPPLIER", ErrValidation)
	}
	amount, ok := jsonstore.ParseDecimal(input.Amount)
	if !ok || !amount.IsPositive() {
		return RecordResult{}, fmt.Errorf("%w: amount must be a positive number", ErrValidation)
	}
	total, err := s.docTotal(input.Kind, input.DocID)
	if err != nil {
		return RecordResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	payment := Payment{
		ID:     s.nextIDLocked(),
		Kind:   input.Kind,
		DocID:  input.DocID,
		Amount: amount,
		Method: input.Method,
		PaidAt: s.clock(),
	}
	s.payments = append(s.payments, payment)
	if err := s.repo.Save(s.payments); err != nil {
		s.payments = s.payments[:len(s.payments)-1]
		return RecordResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	paid := s.paidTotalLocked(input.Kind, input.DocID)
	result := RecordResult{Payment: payment, DocTotal: total, PaidTotal: paid}
	if paid.GreaterThanOrEqual(total) {
		result.Settled = true
		if err := s.markPaid(input.Kind, input.DocID); err != nil {
			// The payment itself is saved; the status flip is retried on the
			// next recorded payment for the same document.
			s.logger.Error("payment saved but status update failed",
				slog.String("kind", string(input.Kind)),
				slog.Int64("doc_id", input.DocID),
				slog.Any("error", err))
		}
	}
	return result, nil
}

// List returns all payments ordered by ID.
func (s *Service) List() []Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Payment, len(s.payments))
	copy(out, s.payments)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PaidTotal sums the payments recorded against one document.
func (s *Service) PaidTotal(kind DocKind, docID int64) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paidTotalLocked(kind, docID)
}

func (s *Service) paidTotalLocked(kind DocKind, docID int64) decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.payments {
		if p.Kind == kind && p.DocID == docID {
			total = total.Add(p.Amount)
		}
	}
	return total
}

func (s *Service) docTotal(kind DocKind, docID int64) (decimal.Decimal, error) {
	var (
		total decimal.Decimal
		err   error
	)
	switch kind {
	case DocCustomer:
		total, err = s.receivables.InvoiceTotal(docID)
	case DocSupplier:
		total, err = s.payables.BillTotal(docID)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %d", ErrNotFound, kind, docID)
	}
	return total, nil
}

func (s *Service) markPaid(kind DocKind, docID int64) error {
	switch kind {
	case DocCustomer:
		return s.receivables.MarkPaid(docID)
	default:
		return s.payables.MarkPaid(docID)
	}
}

func (s *Service) nextIDLocked() int64 {
	ids := make([]int64, 0, len(s.payments))
	for _, p := range s.payments {
		ids = append(ids, p.ID)
	}
	return jsonstore.NextID(ids)
}
