package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eazeinn/accounts/internal/platform/jsonstore"
)

// MetricsPort abstracts the posting counters; a nil port disables them.
type MetricsPort interface {
	ObservePosting(kind string)
	ObserveStockout()
	ObserveSaveFailure(collection string)
}

// Service owns the in-memory inventory collection and its backing file. A
// single mutex makes the exclusion between postings explicit; the original
// application relied on a modal UI for this.
type Service struct {
	mu      sync.Mutex
	repo    *Repository
	logger  *slog.Logger
	metrics MetricsPort
	records []Record
	clock   func() time.Time
}

// NewService loads the collection from disk and builds the ledger. A corrupt
// file starts the collection empty with a logged error, matching the loader
// policy for the rest of the data set.
func NewService(repo *Repository, logger *slog.Logger, metrics MetricsPort) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{repo: repo, logger: logger, metrics: metrics, clock: time.Now}
	records, _, err := repo.Load()
	if err != nil {
		logger.Error("inventory load failed, starting empty", slog.Any("error", err))
		records = nil
	}
	s.records = records
	return s
}

// PostTransaction applies one transaction's line items to the inventory
// collection and persists it. The in-memory mutation is unconditional: a
// failed save returns ErrPersistence but is never rolled back, leaving memory
// ahead of disk until the next successful save.
func (s *Service) PostTransaction(ctx context.Context, kind Kind, lines []LineItem) error {
	if kind != KindPurchase && kind != KindSale {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if len(lines) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, line := range lines {
		name := strings.TrimSpace(line.ItemName)
		now := s.clock()
		idx := s.findLocked(name)

		switch kind {
		case KindPurchase:
			if idx >= 0 {
				rec := &s.records[idx]
				oldQty := rec.Quantity
				rec.Quantity = rec.Quantity.Add(line.Quantity)
				rec.UnitCost = line.UnitPrice // last purchase price wins
				rec.LastUpdated = now
				s.logger.Info("inventory purchase",
					slog.String("item", name),
					slog.String("old_qty", oldQty.String()),
					slog.String("added", line.Quantity.String()),
					slog.String("new_qty", rec.Quantity.String()),
					slog.String("new_cost", rec.UnitCost.String()))
			} else {
				rec := Record{
					ID:          s.nextIDLocked(),
					ItemName:    name,
					Quantity:    line.Quantity,
					UnitCost:    line.UnitPrice,
					LastUpdated: now,
				}
				s.records = append(s.records, rec)
				s.logger.Info("inventory item added",
					slog.String("item", name),
					slog.String("qty", line.Quantity.String()),
					slog.String("cost", line.UnitPrice.String()))
			}
		case KindSale:
			if idx >= 0 {
				rec := &s.records[idx]
				oldQty := rec.Quantity
				// No floor at zero: negative quantity records oversold stock.
				rec.Quantity = rec.Quantity.Sub(line.Quantity)
				rec.LastUpdated = now
				s.logger.Info("inventory sale",
					slog.String("item", name),
					slog.String("old_qty", oldQty.String()),
					slog.String("sold", line.Quantity.String()),
					slog.String("new_qty", rec.Quantity.String()))
			} else {
				rec := Record{
					ID:          s.nextIDLocked(),
					ItemName:    name,
					Quantity:    line.Quantity.Neg(),
					UnitCost:    decimal.Zero,
					LastUpdated: now,
					StatusFlag:  StatusSoldWithoutStock,
				}
				s.records = append(s.records, rec)
				s.logger.Warn("item sold without prior stock",
					slog.String("item", name),
					slog.String("qty", line.Quantity.String()))
				if s.metrics != nil {
					s.metrics.ObserveStockout()
				}
			}
		}
		changed = true
	}
	if s.metrics != nil {
		s.metrics.ObservePosting(string(kind))
	}

	if !changed {
		return nil
	}
	if err := s.repo.Save(s.records); err != nil {
		s.logger.Error("failed to save inventory updates, data may be inconsistent on restart",
			slog.Any("error", err))
		if s.metrics != nil {
			s.metrics.ObserveSaveFailure(collection)
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// Items returns a copy of the collection ordered by ID.
func (s *Service) Items() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Item returns one record by ID.
func (s *Service) Item(id int64) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// Find returns the record matching the trimmed, case-insensitive item name.
func (s *Service) Find(name string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.findLocked(strings.TrimSpace(name)); idx >= 0 {
		return s.records[idx], nil
	}
	return Record{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Valuation sums quantity times unit cost over records with positive stock.
func (s *Service) Valuation() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, rec := range s.records {
		if rec.Quantity.IsPositive() {
			total = total.Add(rec.Quantity.Mul(rec.UnitCost))
		}
	}
	return total
}

// LowStock lists records at or below the threshold, including oversold and
// stockout-flagged records.
func (s *Service) LowStock(threshold decimal.Decimal) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	for _, rec := range s.records {
		if rec.Quantity.LessThanOrEqual(threshold) || rec.StatusFlag == StatusSoldWithoutStock {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Service) findLocked(trimmedName string) int {
	for i := range s.records {
		if strings.EqualFold(strings.TrimSpace(s.records[i].ItemName), trimmedName) {
			return i
		}
	}
	return -1
}

func (s *Service) nextIDLocked() int64 {
	ids := make([]int64, 0, len(s.records))
	for _, rec := range s.records {
		ids = append(ids, rec.ID)
	}
	return jsonstore.NextID(ids)
}
