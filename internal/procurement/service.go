package procurement

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

// LedgerPort exposes the inventory posting the bill flow needs.
type LedgerPort interface {
	PostTransaction(ctx context.Context, kind ledger.Kind, lines []ledger.LineItem) error
}

// Service orchestrates supplier bills and their inventory postings.
type Service struct {
	mu     sync.Mutex
	repo   *Repository
	ledger LedgerPort
	logger *slog.Logger
	bills  []Bill
	items  []BillItem
	clock  func() time.Time
}

// NewService loads the bill collections and builds the service.
func NewService(repo *Repository, ledgerPort LedgerPort, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{repo: repo, ledger: ledgerPort, logger: logger, clock: time.Now}
	bills, items, _, err := repo.Load()
	if err != nil {
		logger.Error("bill load failed, starting empty", slog.Any("error", err))
		bills, items = nil, nil
	}
	s.bills = bills
	s.items = items
	return s
}

// CreateBill saves the bill and its line items, then posts a PURCHASE to the
// inventory ledger. A failed ledger save does not fail the bill: the result
// carries a user-visible warning instead, and the ledger keeps its in-memory
// state.
func (s *Service) CreateBill(ctx context.Context, input CreateBillInput) (CreateBillResult, error) {
	supplier := strings.TrimSpace(input.SupplierName)
	if supplier == "" {
		return CreateBillResult{}, fmt.Errorf("%w: supplier name required", ErrValidation)
	}
	date, err := parseDate(input.Date, s.clock)
	if err != nil {
		return CreateBillResult{}, err
	}
	lines, err := parseLines(input.Lines)
	if err != nil {
		return CreateBillResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bill := Bill{ID: s.nextBillIDLocked(), SupplierName: supplier, Date: date, Status: PaymentStatusPending}
	s.bills = append(s.bills, bill)
	if err := s.repo.SaveBills(s.bills); err != nil {
		s.bills = s.bills[:len(s.bills)-1]
		return CreateBillResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	items := make([]BillItem, 0, len(lines))
	for _, line := range lines {
		item := BillItem{
			ID:       s.nextItemIDLocked(),
			BillID:   bill.ID,
			ItemName: line.ItemName,
			Quantity: line.Quantity,
			Price:    line.UnitPrice,
		}
		s.items = append(s.items, item)
		items = append(items, item)
	}
	if err := s.repo.SaveItems(s.items); err != nil {
		s.items = s.items[:len(s.items)-len(items)]
		return CreateBillResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	result := CreateBillResult{Bill: bill, Items: items, Total: totalOf(items)}

	postingRef := uuid.NewString()
	if err := s.ledger.PostTransaction(ctx, ledger.KindPurchase, lines); err != nil {
		s.logger.Error("critical: purchase posted in memory but not saved to disk",
			slog.Int64("bill_id", bill.ID),
			slog.String("posting_ref", postingRef),
			slog.Any("error", err))
		result.StockWarning = "failed to save inventory updates; data may be inconsistent on restart"
	} else {
		s.logger.Info("purchase posted to inventory",
			slog.Int64("bill_id", bill.ID),
			slog.String("posting_ref", postingRef),
			slog.Int("lines", len(lines)))
	}
	return result, nil
}

// GetBill returns one bill with its line items.
func (s *Service) GetBill(id int64) (Bill, []BillItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bill, ok := s.findLocked(id)
	if !ok {
		return Bill{}, nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	var items []BillItem
	for _, item := range s.items {
		if item.BillID == id {
			items = append(items, item)
		}
	}
	return bill, items, nil
}

// ListBills returns all bills ordered by ID.
func (s *Service) ListBills() []Bill {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Bill, len(s.bills))
	copy(out, s.bills)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// BillTotal sums quantity times price over the bill's lines, rounded half-up
// to two places.
func (s *Service) BillTotal(id int64) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.findLocked(id); !ok {
		return decimal.Zero, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	total := decimal.Zero
	for _, item := range s.items {
		if item.BillID == id {
			total = total.Add(item.Quantity.Mul(item.Price))
		}
	}
	return total.Round(2), nil
}

// PendingPayables sums the totals of unpaid bills.
func (s *Service) PendingPayables() (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, bill := range s.bills {
		if bill.Status != PaymentStatusPending {
			continue
		}
		for _, item := range s.items {
			if item.BillID == bill.ID {
				total = total.Add(item.Quantity.Mul(item.Price))
			}
		}
	}
	return total.Round(2), nil
}

// MarkPaid flips the bill to PAID and persists the collection.
func (s *Service) MarkPaid(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bills {
		if s.bills[i].ID == id {
			if s.bills[i].Status == PaymentStatusPaid {
				return nil
			}
			s.bills[i].Status = PaymentStatusPaid
			if err := s.repo.SaveBills(s.bills); err != nil {
				return fmt.Errorf("%w: %v", ErrPersistence, err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: id %d", ErrNotFound, id)
}

func (s *Service) findLocked(id int64) (Bill, bool) {
	for _, bill := range s.bills {
		if bill.ID == id {
			return bill, true
		}
	}
	return Bill{}, false
}

func (s *Service) nextBillIDLocked() int64 {
	ids := make([]int64, 0, len(s.bills))
	for _, bill := range s.bills {
		ids = append(ids, bill.ID)
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

func totalOf(items []BillItem) decimal.Decimal {
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
