package sale

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gnretail/pos-terminal/internal/domain/cart"
	"github.com/gnretail/pos-terminal/internal/domain/catalog"
	"github.com/gnretail/pos-terminal/internal/domain/pricing"
)

// Builder owns one sale draft for one register session. It resolves items
// against the session's catalog snapshot, keeps totals current after every
// mutation, and hands the validated draft to a Submitter exactly once per
// attempt. It is not safe for concurrent use; a register session is
// single-threaded by construction.
type Builder struct {
	snapshot  *catalog.Snapshot
	submitter Submitter

	clientRef     string
	storeID       string
	cart          *cart.Cart
	paymentMethod PaymentMethod
	amountPaid    decimal.Decimal
	notes         string
}

// NewBuilder creates a Builder with an empty draft bound to the given
// snapshot and submitter.
func NewBuilder(snapshot *catalog.Snapshot, submitter Submitter) *Builder {
	return &Builder{
		snapshot:      snapshot,
		submitter:     submitter,
		cart:          cart.New(),
		paymentMethod: PaymentCash,
		amountPaid:    decimal.Zero,
	}
}

// AddItem resolves the product in the snapshot and adds qty units to the
// cart, freezing the current catalog price into the line. The first item
// added to an empty draft assigns the draft's idempotency token.
func (b *Builder) AddItem(productID string, qty int) error {
	p, err := b.snapshot.Product(productID)
	if err != nil {
		return err
	}
	if err := b.cart.AddItem(*p, qty); err != nil {
		return err
	}
	if b.clientRef == "" {
		b.clientRef = uuid.New().String()
	}
	return nil
}

// RemoveLine removes the cart line at the given position.
func (b *Builder) RemoveLine(index int) error {
	return b.cart.RemoveLine(index)
}

// SetQuantity replaces the quantity of the cart line at the given position.
func (b *Builder) SetQuantity(index, qty int) error {
	return b.cart.SetQuantity(index, qty)
}

// SetStore selects the store the sale is booked against. The ID must resolve
// in the snapshot.
func (b *Builder) SetStore(storeID string) error {
	if _, err := b.snapshot.Store(storeID); err != nil {
		return err
	}
	b.storeID = storeID
	return nil
}

// SetDiscount sets the absolute discount amount for the sale.
func (b *Builder) SetDiscount(d decimal.Decimal) error {
	if d.IsNegative() {
		return ErrNegativeAmount
	}
	b.cart.Discount = d
	return nil
}

// SetTax sets the absolute tax amount for the sale.
func (b *Builder) SetTax(t decimal.Decimal) error {
	if t.IsNegative() {
		return ErrNegativeAmount
	}
	b.cart.Tax = t
	return nil
}

// SetAmountPaid records the amount tendered by the customer.
func (b *Builder) SetAmountPaid(a decimal.Decimal) error {
	if a.IsNegative() {
		return ErrNegativeAmount
	}
	b.amountPaid = a
	return nil
}

// SetPaymentMethod selects how the sale is settled.
func (b *Builder) SetPaymentMethod(m PaymentMethod) error {
	if !m.Valid() {
		return ErrInvalidPaymentMethod
	}
	b.paymentMethod = m
	return nil
}

// SetNotes attaches free-text notes to the draft.
func (b *Builder) SetNotes(notes string) error {
	if len(notes) > MaxNotesLen {
		return &NotesTooLongError{Len: len(notes)}
	}
	b.notes = notes
	return nil
}

// Lines returns the current cart lines in display order.
func (b *Builder) Lines() []cart.Line {
	return b.cart.Lines()
}

// StoreID returns the currently selected store, or an empty string.
func (b *Builder) StoreID() string {
	return b.storeID
}

// PaymentMethod returns the currently selected payment method.
func (b *Builder) PaymentMethod() PaymentMethod {
	return b.paymentMethod
}

// ClientRef returns the draft's idempotency token, or an empty string while
// the draft has never held an item.
func (b *Builder) ClientRef() string {
	return b.clientRef
}

// Totals recomputes the derived amounts from the current draft state.
func (b *Builder) Totals() pricing.Totals {
	return pricing.Compute(b.cart.Subtotal(), b.cart.Discount, b.cart.Tax, b.amountPaid)
}

// Reset discards the draft: the cart is cleared, adjustments and payment
// return to their defaults, and the idempotency token is dropped so the next
// draft gets a fresh one.
func (b *Builder) Reset() {
	b.cart.Clear()
	b.clientRef = ""
	b.storeID = ""
	b.paymentMethod = PaymentCash
	b.amountPaid = decimal.Zero
	b.notes = ""
}

// Submit validates the draft and performs the single submission call. All
// validation happens before the network is touched: a store must be
// selected, the cart must be non-empty, the payment must cover the total,
// and the notes must fit. On success the draft is destroyed; on failure it
// is left intact for the cashier to correct or retry.
func (b *Builder) Submit(ctx context.Context) (*Receipt, error) {
	if b.storeID == "" {
		return nil, ErrNoStore
	}
	if b.cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	totals := b.Totals()
	if !totals.Payable() {
		return nil, &InsufficientPaymentError{Total: totals.Total}
	}
	if len(b.notes) > MaxNotesLen {
		return nil, &NotesTooLongError{Len: len(b.notes)}
	}

	lines := b.cart.Lines()
	items := make([]Item, len(lines))
	for i, l := range lines {
		items[i] = Item{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		}
	}

	receipt, err := b.submitter.Submit(ctx, Request{
		ClientRef:     b.clientRef,
		StoreID:       b.storeID,
		Items:         items,
		Discount:      b.cart.Discount,
		Tax:           b.cart.Tax,
		PaymentMethod: b.paymentMethod,
		AmountPaid:    b.amountPaid,
		Notes:         b.notes,
	})
	if err != nil {
		return nil, errors.Wrap(err, "submit sale")
	}

	b.Reset()
	return receipt, nil
}
