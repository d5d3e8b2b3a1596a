package client

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/gnretail/pos-terminal/internal/domain/sale"
)

var _ sale.Submitter = (*Client)(nil)

// Submit performs the single atomic sale call. The draft's client reference
// travels as the Idempotency-Key header so a manual retry after a timeout
// cannot book the sale twice. There is no automatic retry and no
// cancellation of an in-flight call beyond the passed context.
func (c *Client) Submit(ctx context.Context, req sale.Request) (*sale.Receipt, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/sale", bytes.NewReader(encodeSaleRequest(req)))
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.ClientRef != "" {
		httpReq.Header.Set("Idempotency-Key", req.ClientRef)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &ConnectionError{cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectionError{cause: err}
	}

	receipt := &sale.Receipt{}
	env, err := decodeEnvelope(body, func(d *jx.Decoder) error {
		return decodeReceipt(d, receipt)
	})
	if err != nil {
		return nil, &ConnectionError{cause: errors.Wrap(err, "decode sale response")}
	}
	if !env.success {
		msg := env.message
		if msg == "" {
			msg = "sale was rejected"
		}
		return nil, &RejectedError{Message: msg}
	}

	return receipt, nil
}
