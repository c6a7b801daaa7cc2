package sales

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus tracks whether a document has been settled.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// Invoice is a customer invoice header.
type Invoice struct {
	ID           int64
	CustomerName string
	Date         time.Time
	Status       PaymentStatus
}

// InvoiceItem is one invoice line.
type InvoiceItem struct {
	ID        int64
	InvoiceID int64
	ItemName  string
	Quantity  decimal.Decimal
	Price     decimal.Decimal
}

// LineInput carries one wire-form line of a new invoice.
type LineInput struct {
	ItemName string
	Quantity string
	Price    string
}

// CreateInvoiceInput describes a new invoice. Date is YYYY-MM-DD and
// defaults to today.
type CreateInvoiceInput struct {
	CustomerName string
	Date         string
	Lines        []LineInput
}

// CreateInvoiceResult reports the saved invoice plus the outcome of the
// inventory posting. StockWarning is non-empty when the ledger mutation could
// not be persisted; the invoice itself is still saved.
type CreateInvoiceResult struct {
	Invoice      Invoice
	Items        []InvoiceItem
	Total        decimal.Decimal
	StockWarning string
}

var (
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("sales: invalid input")
	// ErrNotFound indicates the invoice does not exist.
	ErrNotFound = errors.New("sales: invoice not found")
	// ErrPersistence indicates the invoice collections could not be written.
	ErrPersistence = errors.New("sales: save failed")
)
