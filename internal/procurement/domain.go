package procurement

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus tracks whether a bill has been settled.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// Bill is a supplier bill header.
type Bill struct {
	ID           int64
	SupplierName string
	Date         time.Time
	Status       PaymentStatus
}

// BillItem is one bill line.
type BillItem struct {
	ID       int64
	BillID   int64
	ItemName string
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// LineInput carries one wire-form line of a new bill.
type LineInput struct {
	ItemName string
	Quantity string
	Price    string
}

// CreateBillInput describes a new supplier bill. Date is YYYY-MM-DD and
// defaults to today.
type CreateBillInput struct {
	SupplierName string
	Date         string
	Lines        []LineInput
}

// CreateBillResult reports the saved bill plus the outcome of the inventory
// posting. StockWarning is non-empty when the ledger mutation could not be
// persisted; the bill itself is still saved.
type CreateBillResult struct {
	Bill         Bill
	Items        []BillItem
	Total        decimal.Decimal
	StockWarning string
}

var (
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("procurement: invalid input")
	// ErrNotFound indicates the bill does not exist.
	ErrNotFound = errors.New("procurement: bill not found")
	// ErrPersistence indicates the bill collections could not be written.
	ErrPersistence = errors.New("procurement: save failed")
)
