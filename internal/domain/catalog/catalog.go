// Package catalog holds the read-only product and store snapshot a register
// session works against. The snapshot is loaded once when the session opens
// and never refreshed; unit prices frozen into cart lines come from here.
package catalog

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrProductNotFound is returned when a product ID or search query does
	// not resolve against the snapshot.
	ErrProductNotFound = errors.New("product not found")
	// ErrStoreNotFound is returned when a store ID does not resolve against
	// the snapshot.
	ErrStoreNotFound = errors.New("store not found")
)

// Product represents a sellable catalog item.
type Product struct {
	ID     string
	Name   string
	SKU    string
	Price  decimal.Decimal
	Unit   string
	Active bool
}

// Store represents a retail location a sale can be booked against.
type Store struct {
	ID   string
	Name string
	City string
}

// Snapshot is an immutable view of the catalog and store list, indexed by ID.
// It is safe for concurrent reads once constructed.
type Snapshot struct {
	products    []Product
	stores      []Store
	productByID map[string]int
	storeByID   map[string]int
}

// NewSnapshot builds a Snapshot from the given products and stores,
// preserving their order for display.
func NewSnapshot(products []Product, stores []Store) *Snapshot {
	s := &Snapshot{
		products:    append([]Product(nil), products...),
		stores:      append([]Store(nil), stores...),
		productByID: make(map[string]int, len(products)),
		storeByID:   make(map[string]int, len(stores)),
	}
	for i, p := range s.products {
		s.productByID[p.ID] = i
	}
	for i, st := range s.stores {
		s.storeByID[st.ID] = i
	}
	return s
}

// Products returns all products in snapshot order.
func (s *Snapshot) Products() []Product {
	return append([]Product(nil), s.products...)
}

// Stores returns all stores in snapshot order.
func (s *Snapshot) Stores() []Store {
	return append([]Store(nil), s.stores...)
}

// Product returns the product with the given ID.
func (s *Snapshot) Product(id string) (*Product, error) {
	i, ok := s.productByID[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	p := s.products[i]
	return &p, nil
}

// Store returns the store with the given ID.
func (s *Snapshot) Store(id string) (*Store, error) {
	i, ok := s.storeByID[id]
	if !ok {
		return nil, ErrStoreNotFound
	}
	st := s.stores[i]
	return &st, nil
}

// FindProduct resolves a cashier-entered query against the snapshot: an exact
// ID, then a case-insensitive SKU match, then the first product whose name
// contains the query (case-insensitive).
func (s *Snapshot) FindProduct(query string) (*Product, error) {
	if p, err := s.Product(query); err == nil {
		return p, nil
	}
	for i := range s.products {
		if strings.EqualFold(s.products[i].SKU, query) {
			p := s.products[i]
			return &p, nil
		}
	}
	q := strings.ToLower(query)
	for i := range s.products {
		if strings.Contains(strings.ToLower(s.products[i].Name), q) {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}
