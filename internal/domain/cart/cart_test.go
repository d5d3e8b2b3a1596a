package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnretail/pos-terminal/internal/domain/catalog"
)

func testProduct(id string, price string) catalog.Product {
	return catalog.Product{
		ID:     id,
		Name:   "Product " + id,
		SKU:    "SKU-" + id,
		Price:  decimal.RequireFromString(price),
		Unit:   "piece",
		Active: true,
	}
}

func TestAddItem_NewLine(t *testing.T) {
	c := New()

	require.NoError(t, c.AddItem(testProduct("p1", "5000"), 2))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, decimal.RequireFromString("10000").Equal(lines[0].Subtotal))
}

func TestAddItem_MergesSameProduct(t *testing.T) {
	c := New()
	p := testProduct("p1", "5000")

	require.NoError(t, c.AddItem(p, 2))
	require.NoError(t, c.AddItem(p, 3))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.True(t, decimal.RequireFromString("25000").Equal(lines[0].Subtotal))
}

func TestAddItem_RepeatedAddsSumQuantities(t *testing.T) {
	c := New()
	p := testProduct("p1", "100")

	total := 0
	for _, qty := range []int{1, 4, 2, 8, 5} {
		require.NoError(t, c.AddItem(p, qty))
		total += qty
	}

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, total, lines[0].Quantity)
	want := decimal.NewFromInt(int64(total * 100))
	assert.True(t, want.Equal(lines[0].Subtotal))
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	c := New()

	assert.ErrorIs(t, c.AddItem(testProduct("p1", "5000"), 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddItem(testProduct("p1", "5000"), -3), ErrInvalidQuantity)
	assert.True(t, c.IsEmpty())
}

func TestAddItem_PriceFrozenPerLine(t *testing.T) {
	c := New()
	p := testProduct("p1", "5000")

	require.NoError(t, c.AddItem(p, 1))

	// A later catalog price change must not affect the existing line.
	p.Price = decimal.RequireFromString("9999")
	require.NoError(t, c.AddItem(p, 1))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.True(t, decimal.RequireFromString("5000").Equal(lines[0].UnitPrice))
	assert.True(t, decimal.RequireFromString("10000").Equal(lines[0].Subtotal))
}

func TestSubtotal_NoDriftOnFractionalPrices(t *testing.T) {
	c := New()
	p := testProduct("p1", "0.01")

	for i := 0; i < 1000; i++ {
		require.NoError(t, c.AddItem(p, 1))
	}

	assert.True(t, decimal.RequireFromString("10.00").Equal(c.Subtotal()),
		"got %s", c.Subtotal())
}

func TestRemoveLine(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(testProduct("p1", "100"), 1))
	require.NoError(t, c.AddItem(testProduct("p2", "200"), 1))
	require.NoError(t, c.AddItem(testProduct("p3", "300"), 1))

	require.NoError(t, c.RemoveLine(1))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "p1", lines[0].ProductID)
	assert.Equal(t, "p3", lines[1].ProductID)

	assert.ErrorIs(t, c.RemoveLine(5), ErrLineOutOfRange)
	assert.ErrorIs(t, c.RemoveLine(-1), ErrLineOutOfRange)
}

func TestSetQuantity(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(testProduct("p1", "100"), 2))

	require.NoError(t, c.SetQuantity(0, 7))
	lines := c.Lines()
	assert.Equal(t, 7, lines[0].Quantity)
	assert.True(t, decimal.RequireFromString("700").Equal(lines[0].Subtotal))

	// Below-one quantities are ignored, not an error.
	require.NoError(t, c.SetQuantity(0, 0))
	lines = c.Lines()
	assert.Equal(t, 7, lines[0].Quantity)

	assert.ErrorIs(t, c.SetQuantity(3, 1), ErrLineOutOfRange)
}

func TestSubtotal_SumsAllLines(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(testProduct("p1", "5000"), 2))
	require.NoError(t, c.AddItem(testProduct("p2", "85000"), 1))

	assert.True(t, decimal.RequireFromString("95000").Equal(c.Subtotal()))
	assert.Equal(t, 3, c.ItemCount())
	assert.Equal(t, 2, c.Len())
}

func TestClear(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(testProduct("p1", "100"), 1))
	c.Discount = decimal.NewFromInt(10)
	c.Tax = decimal.NewFromInt(5)

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.True(t, c.Discount.IsZero())
	assert.True(t, c.Tax.IsZero())
}
