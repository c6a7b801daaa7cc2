package sales

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eazeinn/accounts/internal/ledger"
	"github.com/eazeinn/accounts/internal/platform/jsonstore"
)

// LedgerPort exposes the inventory posting the invoice flow needs.
type LedgerPort interface {
	PostTransaction(ctx context.Context, kind ledger.Kind, lines []ledger.LineItem) error
}

// Service orchestrates customer invoices and their inventory postings.
type Service struct {
	mu       sync.Mutex
	repo     *Repository
	ledger   LedgerPort
	logger   *slog.Logger
	invoices []Invoice
	items    []InvoiceItem
	clock    func() time.Time
}

// NewService loads the invoice collections and builds the service.
func NewService(repo *Repository, ledgerPort LedgerPort, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{repo: repo, ledger: ledgerPort, logger: logger, clock: time.Now}
	invoices, items, _, err := repo.Load()
	if err != nil {
		logger.Error("invoice load failed, starting empty", slog.Any("error", err))
		invoices, items = nil, nil
	}
	s.invoices = invoices
	s.items = items
	return s
}

// CreateInvoice saves the invoice and its line items, then posts a SALE to
// the inventory ledger. A failed ledger save does not fail the invoice: the
// result carries a user-visible warning instead, and the ledger keeps its
// in-memory state.
func (s *Service) CreateInvoice(ctx context.Context, input CreateInvoiceInput) (CreateInvoiceResult, error) {
	customer := strings.TrimSpace(input.CustomerName)
	if customer == "" {
		return CreateInvoiceResult{}, fmt.Errorf("%w: customer name required", ErrValidation)
	}
	date, err := parseDate(input.Date, s.clock)
	if err != nil {
		return CreateInvoiceResult{}, err
	}
	lines, err := parseLines(input.Lines)
	if err != nil {
		return CreateInvoiceResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	inv := Invoice{ID: s.nextInvoiceIDLocked(), CustomerName: customer, Date: date, Status: PaymentStatusPending}
	s.invoices = append(s.invoices, inv)
	if err := s.repo.SaveInvoices(s.invoices); err != nil {
		s.invoices = s.invoices[:len(s.invoices)-1]
		return CreateInvoiceResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	items := make([]InvoiceItem, 0, len(lines))
	for _, line := range lines {
		item := InvoiceItem{
			ID:        s.nextItemIDLocked(),
			InvoiceID: inv.ID,
			ItemName:  line.ItemName,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
		}
		s.items = append(s.items, item)
		items = append(items, item)
	}
	if err := s.repo.SaveItems(s.items); err != nil {
		s.items = s.items[:len(s.items)-len(items)]
		return CreateInvoiceResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	result := CreateInvoiceResult{Invoice: inv, Items: items, Total: totalOf(items)}

	postingRef := uuid.NewString()
	if err := s.ledger.PostTransaction(ctx, ledger.KindSale, lines); err != nil {
		s.logger.Error("critical: sale posted in memory but not saved to disk",
			slog.Int64("invoice_id", inv.ID),
			slog.String("posting_ref", postingRef),
			slog.Any("error", err))
		result.StockWarning = "failed to save inventory updates; data may be inconsistent on restart"
	} else {
		s.logger.Info("sale posted to inventory",
			slog.Int64("invoice_id", inv.ID),
			slog.String("posting_ref", postingRef),
			slog.Int("lines", len(lines)))
	}
	return result, nil
}

// GetInvoice returns one invoice with its line items.
func (s *Service) GetInvoice(id int64) (Invoice, []InvoiceItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.findLocked(id)
	if !ok {
		return Invoice{}, nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	var items []InvoiceItem
	for _, item := range s.items {
		if item.InvoiceID == id {
			items = append(items, item)
		}
	}
	return inv, items, nil
}

// ListInvoices returns all invoices ordered by ID.
func (s *Service) ListInvoices() []Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Invoice, len(s.invoices))
	copy(out, s.invoices)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// InvoiceTotal sums quantity times price over the invoice's lines, rounded
// half-up to two places.
func (s *Service) InvoiceTotal(id int64) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.findLocked(id); !ok {
		return decimal.Zero, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	total := decimal.Zero
	for _, item := range s.items {
		if item.InvoiceID == id {
			total = total.Add(item.Quantity.Mul(item.Price))
		}
	}
	return total.Round(2), nil
}

// PendingReceivables sums the totals of unpaid invoices.
func (s *Service) PendingReceivables() (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, inv := range s.invoices {
		if inv.Status != PaymentStatusPending {
			continue
		}
		for _, item := range s.items {
			if item.InvoiceID == inv.ID {
				total = total.Add(item.Quantity.Mul(item.Price))
			}
		}
	}
	return total.Round(2), nil
}

// MarkPaid flips the invoice to PAID and persists the collection.
func (s *Service) MarkPaid(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.invoices {
		if s.invoices[i].ID == id {
			if s.invoices[i].Status == PaymentStatusPaid {
				return nil
			}
			s.invoices[i].Status = PaymentStatusPaid
			if err := s.repo.SaveInvoices(s.invoices); err != nil {
				return fmt.Errorf("%w: %v", ErrPersistence, err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: id %d", ErrNotFound, id)
}

func (s *Service) findLocked(id int64) (Invoice, bool) {
	for _, inv := range s.invoices {
		if inv.ID == id {
			return inv, true
		}
	}
	return Invoice{}, false
}

func (s *Service) nextInvoiceIDLocked() int64 {
	ids := make([]int64, 0, len(s.invoices))
	for _, inv := range s.invoices {
		ids = append(ids, inv.ID)
	}
	return jsonstore.NextID(ids)
}

func (s *Service) nextItemIDLocked() int64 {
	ids := make([]int64, 0, len(s.items))
	for _, item := range s.items {
		ids = append(ids, item.ID)
	}
	return jsonstore.NextID(ids)
}

func totalOf(items []InvoiceItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Quantity.Mul(item.Price))
	}
	return total.Round(2)
}

func parseDate(raw string, clock func() time.Time) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		now := clock()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	date, err := time.ParseInLocation(jsonstore.DateLayout, strings.TrimSpace(raw), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	return date, nil
}

func parseLines(inputs []LineInput) ([]ledger.LineItem, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one line item required", ErrValidation)
	}
	lines := make([]ledger.LineItem, 0, len(inputs))
	for i, in := range inputs {
		line, err := ledger.ParseLine(in.ItemName, in.Quantity, in.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrValidation, i+1, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}
