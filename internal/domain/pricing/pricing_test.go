package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name       string
		subtotal   string
		discount   string
		tax        string
		amountPaid string
		wantTotal  string
		wantChange string
		payable    bool
	}{
		{
			name:     "exact payment no adjustments",
			subtotal: "10000", discount: "0", tax: "0", amountPaid: "10000",
			wantTotal: "10000", wantChange: "0", payable: true,
		},
		{
			name:     "overpayment yields change",
			subtotal: "10000", discount: "0", tax: "0", amountPaid: "15000",
			wantTotal: "10000", wantChange: "5000", payable: true,
		},
		{
			name:     "underpayment yields negative change",
			subtotal: "10000", discount: "0", tax: "0", amountPaid: "9000",
			wantTotal: "10000", wantChange: "-1000", payable: false,
		},
		{
			name:     "discount reduces total",
			subtotal: "10000", discount: "1500", tax: "0", amountPaid: "8500",
			wantTotal: "8500", wantChange: "0", payable: true,
		},
		{
			name:     "tax increases total",
			subtotal: "10000", discount: "0", tax: "1800", amountPaid: "12000",
			wantTotal: "11800", wantChange: "200", payable: true,
		},
		{
			name:     "discount and tax combine",
			subtotal: "10000", discount: "2000", tax: "500", amountPaid: "8500",
			wantTotal: "8500", wantChange: "0", payable: true,
		},
		{
			name:     "fractional amounts stay exact",
			subtotal: "10.00", discount: "0.05", tax: "0.01", amountPaid: "10.00",
			wantTotal: "9.96", wantChange: "0.04", payable: true,
		},
		{
			name:     "zero-amount sale",
			subtotal: "0", discount: "0", tax: "0", amountPaid: "0",
			wantTotal: "0", wantChange: "0", payable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(dec(tt.subtotal), dec(tt.discount), dec(tt.tax), dec(tt.amountPaid))

			assert.True(t, dec(tt.subtotal).Equal(got.Subtotal), "subtotal: got %s", got.Subtotal)
			assert.True(t, dec(tt.wantTotal).Equal(got.Total), "total: got %s", got.Total)
			assert.True(t, dec(tt.wantChange).Equal(got.Change), "change: got %s", got.Change)
			assert.Equal(t, tt.payable, got.Payable())
		})
	}
}

func TestCompute_RepeatedFractionalAdditions(t *testing.T) {
	// 1000 additions of 0.01 must sum to exactly 10.00.
	subtotal := decimal.Zero
	cent := dec("0.01")
	for i := 0; i < 1000; i++ {
		subtotal = subtotal.Add(cent)
	}

	got := Compute(subtotal, decimal.Zero, decimal.Zero, dec("10.00"))
	assert.True(t, dec("10.00").Equal(got.Total), "got %s", got.Total)
	assert.True(t, got.Change.IsZero())
}
