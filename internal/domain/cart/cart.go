// Package cart implements the in-memory cart a sale is built from: an
// ordered list of lines keyed by product ID plus the discount and tax
// adjustments applied to the whole sale.
package cart

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/gnretail/pos-terminal/internal/domain/catalog"
)

var (
	// ErrInvalidQuantity is returned when an item is added with a quantity
	// below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrLineOutOfRange is returned when a line index does not exist. Callers
	// are expected to guard indexes; hitting this is a call-site bug.
	ErrLineOutOfRange = errors.New("cart line index out of range")
)

// Line is a single cart position. UnitPrice is frozen at add time and never
// re-read from the catalog; Subtotal is kept equal to Quantity * UnitPrice
// by every mutation.
type Line struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// Cart aggregates lines in insertion order. No two lines share a product ID:
// adding an already-present product merges into the existing line.
type Cart struct {
	lines    []Line
	Discount decimal.Decimal
	Tax      decimal.Decimal
}

// New returns an empty cart with zero adjustments.
func New() *Cart {
	return &Cart{
		Discount: decimal.Zero,
		Tax:      decimal.Zero,
	}
}

// AddItem adds qty units of the product to the cart, merging into the
// existing line when the product is already present. The product's catalog
// price is frozen into the line on first add.
func (c *Cart) AddItem(p catalog.Product, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity += qty
			c.lines[i].Subtotal = c.lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(c.lines[i].Quantity)))
			return nil
		}
	}

	c.lines = append(c.lines, Line{
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    qty,
		UnitPrice:   p.Price,
		Subtotal:    p.Price.Mul(decimal.NewFromInt(int64(qty))),
	})
	return nil
}

// RemoveLine deletes the line at the given position, preserving the order of
// the remaining lines.
func (c *Cart) RemoveLine(index int) error {
	if index < 0 || index >= len(c.lines) {
		return ErrLineOutOfRange
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return nil
}

// SetQuantity replaces the quantity of the line at the given position and
// recomputes its subtotal. Quantities below one are ignored without error so
// a half-typed value in a numeric field never disturbs the cart.
func (c *Cart) SetQuantity(index, qty int) error {
	if index < 0 || index >= len(c.lines) {
		return ErrLineOutOfRange
	}
	if qty < 1 {
		return nil
	}
	c.lines[index].Quantity = qty
	c.lines[index].Subtotal = c.lines[index].UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
	return nil
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemCount returns the total number of units across all lines.
func (c *Cart) ItemCount() int {
	var n int
	for i := range c.lines {
		n += c.lines[i].Quantity
	}
	return n
}

// Subtotal returns the exact sum of all line subtotals.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for i := range c.lines {
		sum = sum.Add(c.lines[i].Subtotal)
	}
	return sum
}

// Clear removes every line and resets the adjustments to zero.
func (c *Cart) Clear() {
	c.lines = nil
	c.Discount = decimal.Zero
	c.Tax = decimal.Zero
}
