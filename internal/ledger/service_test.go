package ledger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeMetrics struct {
	postings     map[string]int
	stockouts    int
	saveFailures int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{postings: make(map[string]int)}
}

func (m *fakeMetrics) ObservePosting(kind string) { m.postings[kind]++ }
func (m *fakeMetrics) ObserveStockout()           { m.stockouts++ }
func (m *fakeMetrics) ObserveSaveFailure(string)  { m.saveFailures++ }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.json")
	repo := NewRepository(path, testLogger(), nil)
	return NewService(repo, testLogger(), nil), path
}

func line(name, qty, price string) LineItem {
	return LineItem{
		ItemName:  name,
		Quantity:  decimal.RequireFromString(qty),
		UnitPrice: decimal.RequireFromString(price),
	}
}

func TestPurchaseAddsQuantityAndOverwritesCost(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.PostTransaction(ctx, KindPurchase, []LineItem{line("Pen", "100", "2.50")}))
	require.NoError(t, svc.PostTransaction(ctx, KindPurchase, []LineItem{line("Pen", "50", "3.00")}))

	rec, err := svc.Find("Pen")
	require.NoError(t, err)
	require.True(t, rec.Quantity.Equal(decimal.RequireFromString("150")))
	require.True(t, rec.UnitCost.Equal(decimal.RequireFromString("3.00")))
}

func TestSaleLeavesUnitCostUnchanged(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.PostTransaction(ctx, KindPurchase, []LineItem{line("Pen", "100", "2.50")}))
	require.NoError(t, svc.PostTransaction(ctx, KindSale, []LineItem{line("Pen", "30", "5.00")}))

	rec, err := svc.Find("Pen")
	require.NoError(t, err)
	require.True(t, rec.Quantity.Equal(decimal.RequireFromString("70")))
	require.True(t, rec.UnitCost.Equal(decimal.RequireFromString("2.50")))
	require.Empty(t, rec.StatusFlag)
}

func TestSaleCanDriveQuantityNegative(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.PostTransaction(ctx, KindPurchase, []LineItem{line("Pen", "100", "2.50")}))
	require.NoError(t, svc.PostTransaction(ctx, KindSale, []LineItem{line("Pen", "30", "5.00")}))
	require.NoError(t, svc.PostTransaction(ctx, KindPurchase, []LineItem{line("Pen", "50", "2.60")}))
	require.NoError(t, svc.PostTransaction(ctx, KindSale, []LineItem{line("Pen", "200", "5.00")}))

	rec, err := svc.Find("Pen")
	require.NoError(t, err)
	require.True(t, rec.Quantity.Equal(decimal.RequireFromString("-80")))
	require.True(t, rec.UnitCost.Equal(decimal.RequireFromString("2.60")))
}

func TestSaleOfUnknownItemCreatesFlaggedRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	metrics := newFakeMetrics()
	svc := NewService(NewRepository(path, testLogger(), nil), testLogger(), metrics)
	ctx := context.Background()

	require.NoError(t, svc.PostTransaction(ctx, KindSale, []LineItem{line("Ghost", "3", "9.99")}))

	rec, err := svc.Find("Ghost")
	require.NoError(t, err)
	require.True(t, rec.Quantity.Equal(decimal.RequireFromString("-3")))
	require.True(t, rec.UnitCost.IsZero())
	require.Equal(t, StatusSoldWithoutStock, rec.StatusFlag)
	require.Equal(t, 1, metrics.stockouts)
	require.Equal(t, 1, metrics.postings[string(KindSale)])
}

func TestItemIdentityIgnoresCaseAndWhitespace(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.PostTransaction(ctx, KindPurchase, []LineItem{line("Widget", "10", "1.00")}))
	require.NoError(t, svc.PostTransaction(ctx, KindPurchase, []LineItem{line("  widget ", "5", "1.10")}))
	require.NoError(t, svc.PostTransaction(ctx, KindSale, []LineItem{line("WIDGET", "2", "2.00")}))

	items := svc.Items()
	require.Len(t, items, 1)
	require.Equal(t, "Widget", items[0].ItemName)
	require.True(t, items[0].Quantity.Equal(decimal.RequireFromString("13")))
}

func TestUnknownKindRejected(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.PostTransaction(context.Background(), Kind("REFUND"), []LineItem{line("Pen", "1", "1")})
	require.ErrorIs(t, err, ErrUnknownKind)
	require.Empty(t, svc.Items())
}

func TestEmptyTransactionIsNoOp(t *testing.T) {
	svc, path := newTestService(t)

	require.NoError(t, svc.PostTransaction(context.Background(), KindSale, nil))
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestPostingSurvivesRestart(t *testing.T) {
	svc, path := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.PostTransaction(ctx, KindPurchase, []LineItem{line("Pen", "100", "2.50")}))
	require.NoError(t, svc.PostTransaction(ctx, KindSale, []LineItem{line("Ghost", "1", "4.00")}))

	reloaded := NewService(NewRepository(path, testLogger(), nil), testLogger(), nil)
	items := reloaded.Items()
	require.Len(t, items, 2)

	pen, err := reloaded.Find("Pen")
	require.NoError(t, err)
	require.True(t, pen.Quantity.Equal(decimal.RequireFromString("100")))
	require.True(t, pen.UnitCost.Equal(decimal.RequireFromString("2.5")))

	ghost, err := reloaded.Find("Ghost")
	require.NoError(t, err)
	require.Equal(t, StatusSoldWithoutStock, ghost.StatusFlag)
}

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// The parent of the target path is a regular file, so every save fails.
	path := filepath.Join(blocker, "inventory.json")
	metrics := newFakeMetrics()
	svc := NewService(NewRepository(path, testLogger(), nil), testLogger(), metrics)

	err := svc.PostTransaction(context.Background(), KindPurchase, []LineItem{line("Pen", "10", "2.00")})
	require.ErrorIs(t, err, ErrPersistence)
	require.Equal(t, 1, metrics.saveFailures)

	rec, err := svc.Find("Pen")
	require.NoError(t, err)
	require.True(t, rec.Quantity.Equal(decimal.RequireFromString("10")))
}

func TestValuationSkipsNonPositiveStock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.PostTransaction(ctx, KindPurchase, []LineItem{line("Pen", "10", "2.00")}))
	require.NoError(t, svc.PostTransaction(ctx, KindPurchase, []LineItem{line("Book", "4", "50")}))
	require.NoError(t, svc.PostTransaction(ctx, KindSale, []LineItem{line("Ghost", "2", "1.00")}))

	require.True(t, svc.Valuation().Equal(decimal.RequireFromString("220")))
}

func TestLowStockIncludesOversoldAndFlagged(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.PostTransaction(ctx, KindPurchase, []LineItem{line("Plenty", "100", "1")}))
	require.NoError(t, svc.PostTransaction(ctx, KindPurchase, []LineItem{line("Scarce", "3", "1")}))
	require.NoError(t, svc.PostTransaction(ctx, KindSale, []LineItem{line("Ghost", "1", "1")}))

	low := svc.LowStock(decimal.NewFromInt(5))
	require.Len(t, low, 2)
	require.Equal(t, "Scarce", low[0].ItemName)
	require.Equal(t, "Ghost", low[1].ItemName)
}

func TestItemLookupByID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.PostTransaction(ctx, KindPurchase, []LineItem{line("Pen", "1", "1")}))

	rec, err := svc.Item(1)
	require.NoError(t, err)
	require.Equal(t, "Pen", rec.ItemName)

	_, err = svc.Item(42)
	require.ErrorIs(t, err, ErrNotFound)
}
