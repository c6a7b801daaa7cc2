// Package insights computes the dashboard summary over the bookkeeping
// collections.
package insights

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/eazeinn/accounts/internal/ledger"
)

// InventoryPort exposes the inventory reads the dashboard needs.
type InventoryPort interface {
	Valuation() decimal.Decimal
	LowStock(threshold decimal.Decimal) []ledger.Record
}

// ReceivablesPort exposes pending customer totals.
type ReceivablesPort interface {
	PendingReceivables() (decimal.Decimal, error)
}

// PayablesPort exposes pending supplier totals.
type PayablesPort interface {
	PendingPayables() (decimal.Decimal, error)
}

// FormatterPort renders amounts for display.
type FormatterPort interface {
	FormatAmount(decimal.Decimal) string
}

// Summary is the dashboard headline.
type Summary struct {
	PendingReceivables decimal.Decimal
	PendingPayables    decimal.Decimal
	InventoryValue     decimal.Decimal
}

// Service aggregates dashboard figures.
type Service struct {
	inventory   InventoryPort
	receivables ReceivablesPort
	payables    PayablesPort
	threshold   decimal.Decimal
}

// NewService builds the insights service. threshold bounds the low-stock
// listing.
func NewService(inventory InventoryPort, receivables ReceivablesPort, payables PayablesPort, threshold decimal.Decimal) *Service {
	return &Service{inventory: inventory, receivables: receivables, payables: payables, threshold: threshold}
}

// Summary computes the three dashboard cards concurrently.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	var out Summary
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.receivables.PendingReceivables()
		if err != nil {
			return err
		}
		out.PendingReceivables = total
		return nil
	})
	g.Go(func() error {
		total, err := s.payables.PendingPayables()
		if err != nil {
			return err
		}
		out.PendingPayables = total
		return nil
	})
	g.Go(func() error {
		out.InventoryValue = s.inventory.Valuation()
		return nil
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return out, nil
}

// LowStock lists records at or below the configured threshold.
func (s *Service) LowStock() []ledger.Record {
	return s.inventory.LowStock(s.threshold)
}

// Threshold returns the configured low-stock threshold.
func (s *Service) Threshold() decimal.Decimal {
	return s.threshold
}
