package client

import (
	"context"
	"net/url"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"golang.org/x/sync/errgroup"

	"github.com/gnretail/pos-terminal/internal/domain/catalog"
)

// FetchProducts returns the active products of the catalog.
func (c *Client) FetchProducts(ctx context.Context) ([]catalog.Product, error) {
	body, err := c.get(ctx, "/product", url.Values{"active": []string{"true"}})
	if err != nil {
		return nil, errors.Wrap(err, "fetch products")
	}

	var products []catalog.Product
	env, err := decodeEnvelope(body, func(d *jx.Decoder) error {
		return d.Arr(func(d *jx.Decoder) error {
			p, err := decodeProduct(d)
			if err != nil {
				return err
			}
			products = append(products, p)
			return nil
		})
	})
	if err != nil {
		return nil, &ConnectionError{cause: errors.Wrap(err, "decode products")}
	}
	if !env.success {
		msg := env.message
		if msg == "" {
			msg = "product list request was rejected"
		}
		return nil, &RejectedError{Message: msg}
	}
	return products, nil
}

// FetchStores returns the stores a sale can be booked against.
func (c *Client) FetchStores(ctx context.Context) ([]catalog.Store, error) {
	body, err := c.get(ctx, "/store", nil)
	if err != nil {
		return nil, errors.Wrap(err, "fetch stores")
	}

	var stores []catalog.Store
	env, err := decodeEnvelope(body, func(d *jx.Decoder) error {
		return d.Arr(func(d *jx.Decoder) error {
			s, err := decodeStore(d)
			if err != nil {
				return err
			}
			stores = append(stores, s)
			return nil
		})
	})
	if err != nil {
		return nil, &ConnectionError{cause: errors.Wrap(err, "decode stores")}
	}
	if !env.success {
		msg := env.message
		if msg == "" {
			msg = "store list request was rejected"
		}
		return nil, &RejectedError{Message: msg}
	}
	return stores, nil
}

// LoadSnapshot fetches products and stores concurrently and assembles the
// session's catalog snapshot. It is called once when a register session
// opens.
func (c *Client) LoadSnapshot(ctx context.Context) (*catalog.Snapshot, error) {
	var (
		products []catalog.Product
		stores   []catalog.Store
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = c.FetchProducts(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		stores, err = c.FetchStores(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return catalog.NewSnapshot(products, stores), nil
}
