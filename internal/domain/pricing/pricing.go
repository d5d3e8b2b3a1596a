// Package pricing derives the displayed totals of a sale from the cart
// subtotal and the scalar adjustments. It is purely computational and uses
// exact decimal arithmetic throughout; repeated additions never drift.
package pricing

import "github.com/shopspring/decimal"

// Totals holds the derived amounts of a sale draft.
//
// Total = Subtotal - Discount + Tax. Change = AmountPaid - Total and may be
// negative; a negative change means the payment does not cover the sale and
// must block submission rather than being floored to zero.
type Totals struct {
	Subtotal decimal.Decimal
	Total    decimal.Decimal
	Change   decimal.Decimal
}

// Compute derives the totals for the given subtotal, adjustments, and
// payment. It has no side effects and is recomputed after every cart
// mutation so displayed totals are never stale.
func Compute(subtotal, discount, tax, amountPaid decimal.Decimal) Totals {
	total := subtotal.Sub(discount).Add(tax)
	return Totals{
		Subtotal: subtotal,
		Total:    total,
		Change:   amountPaid.Sub(total),
	}
}

// Payable reports whether the payment covers the total. Only then is the
// change amount meaningful for display.
func (t Totals) Payable() bool {
	return !t.Change.IsNegative()
}
