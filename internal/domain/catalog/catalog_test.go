package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *Snapshot {
	return NewSnapshot(
		[]Product{
			{ID: "p1", Name: "Rice 25kg", SKU: "RICE-25", Price: decimal.NewFromInt(250000), Unit: "bag", Active: true},
			{ID: "p2", Name: "Palm Oil 5L", SKU: "OIL-5", Price: decimal.NewFromInt(85000), Unit: "bottle", Active: true},
			{ID: "p3", Name: "Sugar 1kg", SKU: "SUGAR-1", Price: decimal.NewFromInt(12000), Unit: "kg", Active: true},
		},
		[]Store{
			{ID: "s1", Name: "Madina Market", City: "Conakry"},
			{ID: "s2", Name: "Centre Ville", City: "Kindia"},
		},
	)
}

func TestSnapshot_Product(t *testing.T) {
	snap := testSnapshot()

	p, err := snap.Product("p2")
	require.NoError(t, err)
	assert.Equal(t, "Palm Oil 5L", p.Name)

	_, err = snap.Product("missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSnapshot_Store(t *testing.T) {
	snap := testSnapshot()

	st, err := snap.Store("s1")
	require.NoError(t, err)
	assert.Equal(t, "Conakry", st.City)

	_, err = snap.Store("s9")
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestSnapshot_FindProduct(t *testing.T) {
	snap := testSnapshot()

	tests := []struct {
		name    string
		query   string
		wantID  string
		wantErr error
	}{
		{name: "exact id", query: "p3", wantID: "p3"},
		{name: "sku case-insensitive", query: "rice-25", wantID: "p1"},
		{name: "name substring", query: "palm", wantID: "p2"},
		{name: "no match", query: "cement", wantErr: ErrProductNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := snap.FindProduct(tt.query)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, p.ID)
		})
	}
}

func TestSnapshot_OrderPreserved(t *testing.T) {
	snap := testSnapshot()

	products := snap.Products()
	require.Len(t, products, 3)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "p3", products[2].ID)

	// Mutating the returned slice must not affect the snapshot.
	products[0].Name = "changed"
	p, err := snap.Product("p1")
	require.NoError(t, err)
	assert.Equal(t, "Rice 25kg", p.Name)
}
