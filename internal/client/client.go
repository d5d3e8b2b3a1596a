// Package client implements the REST collaborators of the sale builder: the
// catalog snapshot loader and the sale submitter, talking JSON over HTTP to
// the back-office service with a bearer token.
package client

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/gnretail/pos-terminal/pkg/httpclient"
)

// Config holds the REST client configuration.
type Config struct {
	// BaseURL is the backend root, e.g. https://api.example.com/api.
	BaseURL string
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration
}

// Client talks to the back-office REST API. All calls carry the session's
// bearer token and a request ID; the transport is traced via otelhttp.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given backend and session.
func New(cfg Config, session *Session, lg *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}

	transport := httpclient.Wrap(
		otelhttp.NewTransport(http.DefaultTransport),
		httpclient.RequestID(),
		httpclient.BearerAuth(session),
		httpclient.LogRequests(lg),
	)

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
	}, nil
}

// get performs a GET request and returns the raw response body. Status codes
// are not inspected: the backend signals failure through the success flag in
// the body, and anything unparsable is a connection error at the decode site.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ConnectionError{cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectionError{cause: err}
	}
	return body, nil
}
