package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Kind enumerates supported posting kinds.
type Kind string

const (
	// KindPurchase adds stock from a supplier bill.
	KindPurchase Kind = "PURCHASE"
	// KindSale removes stock from a customer invoice.
	KindSale Kind = "SALE"
)

// StatusFlag marks a record for later manual review.
type StatusFlag string

// StatusSoldWithoutStock is set when a sale is posted for an item with no
// prior inventory record.
const StatusSoldWithoutStock StatusFlag = "SOLD_WITHOUT_STOCK"

// Record is one inventory line, keyed by case-insensitive item name.
type Record struct {
	ID          int64
	ItemName    string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	LastUpdated time.Time
	StatusFlag  StatusFlag
}

// LineItem is the input to one posting. Quantity is positive and UnitPrice
// non-negative; callers validate before posting.
type LineItem struct {
	ItemName  string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

var (
	// ErrPersistence indicates the inventory file could not be written. The
	// in-memory collection keeps the post-mutation state.
	ErrPersistence = errors.New("ledger: inventory save failed")
	// ErrUnknownKind indicates an unsupported posting kind.
	ErrUnknownKind = errors.New("ledger: unknown transaction kind")
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("ledger: item not found")
)
