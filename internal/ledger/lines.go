package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eazeinn/accounts/internal/platform/jsonstore"
)

// ErrInvalidLine indicates a rejected wire-form line item.
var ErrInvalidLine = errors.New("ledger: invalid line item")

// ParseLine converts one wire-form line into a LineItem, enforcing the
// contract callers owe the ledger: positive quantity, non-negative price.
func ParseLine(itemName, quantity, unitPrice string) (LineItem, error) {
	name := strings.TrimSpace(itemName)
	if name == "" {
		return LineItem{}, fmt.Errorf("%w: item name required", ErrInvalidLine)
	}
	qty, ok := jsonstore.ParseDecimal(quantity)
	if !ok || !qty.IsPositive() {
		return LineItem{}, fmt.Errorf("%w: quantity must be a positive number", ErrInvalidLine)
	}
	price, ok := jsonstore.ParseDecimal(unitPrice)
	if !ok || price.IsNegative() {
		return LineItem{}, fmt.Errorf("%w: price must be a non-negative number", ErrInvalidLine)
	}
	return LineItem{ItemName: name, Quantity: qty, UnitPrice: price}, nil
}
