package payments

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// DocKind names the document a payment settles.
type DocKind string

const (
	// DocCustomer settles a customer invoice (money in).
	DocCustomer DocKind = "CUSTOMER"
	// DocSupplier settles a supplier bill (money out).
	DocSupplier DocKind = "SUPPLIER"
)

// Payment is one recorded settlement against an invoice or bill.
type Payment struct {
	ID     int64
	Kind   DocKind
	DocID  int64
	Amount decimal.Decimal
	Method string
	PaidAt time.Time
}

// RecordInput describes a new payment. Amount is wire-form decimal.
type RecordInput struct {
	Kind   DocKind
	DocID  int64
	Amount string
	Method string
}

// RecordResult reports the saved payment and the settlement state of the
// referenced document.
type RecordResult struct {
	Payment   Payment
	DocTotal  decimal.Decimal
	PaidTotal decimal.Decimal
	Settled   bool
}

var (
	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("payments: invalid input")
	// ErrNotFound indicates the referenced document does not exist.
	ErrNotFound = errors.New("payments: document not found")
	// ErrPersistence indicates the payment collection could not be written.
	ErrPersistence = errors.New("payments: save failed")
)
