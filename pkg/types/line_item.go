package types

import (
	"errors"
	"fmt"
	"math"
)

// ErrAmountOverflow reports a subtotal or total that does not fit in int64 paise.
var ErrAmountOverflow = errors.New("amount overflows int64")

// LineOverflowError names the line whose subtotal, or whose addition to the
// running total, overflowed.
type LineOverflowError struct {
	Index int
}

func (e *LineOverflowError) Error() string {
	return fmt.Sprintf("items[%d]: %v", e.Index, ErrAmountOverflow)
}

func (e *LineOverflowError) Unwrap() error { return ErrAmountOverflow }

// LineItem is a priced snapshot of a product inside a cart or an order. Name
// and Price are copied at the time the item was added so later catalog edits
// never rewrite history.
type LineItem struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

// LineItems is persisted as a JSON column.
type LineItems []LineItem

// Subtotal multiplies price by quantity. Both must be non-negative.
func Subtotal(price int64, quantity int) (int64, error) {
	if price < 0 || quantity < 0 {
		return 0, fmt.Errorf("negative price or quantity")
	}
	if price != 0 && int64(quantity) > math.MaxInt64/price {
		return 0, ErrAmountOverflow
	}
	return price * int64(quantity), nil
}

// AddAmount adds two non-negative amounts.
func AddAmount(a, b int64) (int64, error) {
	if b > math.MaxInt64-a {
		return 0, ErrAmountOverflow
	}
	return a + b, nil
}

// Priced returns a copy with every subtotal recomputed from price and
// quantity, plus the order total. Overflow yields a *LineOverflowError.
func (items LineItems) Priced() (LineItems, int64, error) {
	out := make(LineItems, len(items))
	var total int64
	for i, item := range items {
		subtotal, err := Subtotal(item.Price, item.Quantity)
		if err != nil {
			if errors.Is(err, ErrAmountOverflow) {
				return nil, 0, &LineOverflowError{Index: i}
			}
			return nil, 0, fmt.Errorf("items[%d]: %w", i, err)
		}
		if total, err = AddAmount(total, subtotal); err != nil {
			return nil, 0, &LineOverflowError{Index: i}
		}
		item.Subtotal = subtotal
		out[i] = item
	}
	return out, total, nil
}

// Total sums the subtotals of items already passed through Priced.
func (items LineItems) Total() int64 {
	var total int64
	for _, item := range items {
		total += item.Subtotal
	}
	return total
}

// Count sums the quantities.
func (items LineItems) Count() int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}
