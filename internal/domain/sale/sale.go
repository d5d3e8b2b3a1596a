// Package sale implements the sale draft lifecycle: a draft is created
// empty, mutated by cashier actions, and ends either discarded or submitted
// through a single atomic backend call.
package sale

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates the accepted ways to settle a sale.
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "CASH"
	PaymentCard        PaymentMethod = "CARD"
	PaymentMobileMoney PaymentMethod = "MOBILE_MONEY"
	PaymentCheck       PaymentMethod = "CHECK"
)

// Valid reports whether m is one of the accepted payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentMobileMoney, PaymentCheck:
		return true
	}
	return false
}

// MaxNotesLen is the maximum accepted length of the free-text notes field.
const MaxNotesLen = 500

// Sentinel errors for local pre-submission validation. All of them are
// detected before any network call is made.
var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrNoStore              = errors.New("no store selected")
	ErrNegativeAmount       = errors.New("amount must not be negative")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// InsufficientPaymentError indicates the amount paid does not cover the
// computed total. The message carries the total so the cashier sees the
// amount still due.
type InsufficientPaymentError struct {
	Total decimal.Decimal
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("amount paid is less than the total due %s", e.Total)
}

// NotesTooLongError indicates the notes field exceeds MaxNotesLen.
type NotesTooLongError struct {
	Len int
}

func (e *NotesTooLongError) Error() string {
	return fmt.Sprintf("notes must be at most %d characters, got %d", MaxNotesLen, e.Len)
}

// Item is a sale line as sent to the backend.
type Item struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Request is the payload of one sale submission. ClientRef is the draft's
// idempotency token: it stays the same across manual retries of one draft so
// a resubmission after a timeout cannot book the sale twice.
type Request struct {
	ClientRef     string
	StoreID       string
	Items         []Item
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	PaymentMethod PaymentMethod
	AmountPaid    decimal.Decimal
	Notes         string
}

// Receipt is the backend's confirmation of a persisted sale.
type Receipt struct {
	SaleID     string
	SaleNumber string
	Total      decimal.Decimal
	Change     decimal.Decimal
}

// Submitter performs the single atomic submission call. Implementations must
// not retry: a failed call surfaces to the cashier who decides whether to
// resubmit the intact draft.
type Submitter interface {
	Submit(ctx context.Context, req Request) (*Receipt, error)
}
