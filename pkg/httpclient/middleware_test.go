package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func doGet(t *testing.T, rt http.RoundTripper, url string) *http.Response {
	t.Helper()
	client := &http.Client{Transport: rt}
	resp, err := client.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestBearerAuth(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	rt := Wrap(nil, BearerAuth(staticToken("secret-token")))
	doGet(t, rt, srv.URL)

	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestBearerAuth_EmptyTokenLeavesHeaderUnset(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	rt := Wrap(nil, BearerAuth(staticToken("")))
	doGet(t, rt, srv.URL)

	assert.Empty(t, gotAuth)
}

func TestRequestID_Generated(t *testing.T) {
	var gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
	}))
	defer srv.Close()

	rt := Wrap(nil, RequestID())
	doGet(t, rt, srv.URL)

	assert.NotEmpty(t, gotID)
	assert.Len(t, gotID, 36)
}

func TestRequestID_ExistingValueKept(t *testing.T) {
	var gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "caller-supplied-id")

	client := &http.Client{Transport: Wrap(nil, RequestID())}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "caller-supplied-id", gotID)
}

func TestWrap_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(r)
			})
		}
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	rt := Wrap(nil, mw("first"), mw("second"), LogRequests(zap.NewNop()))
	doGet(t, rt, srv.URL)

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestIsValidRequestID(t *testing.T) {
	assert.False(t, isValidRequestID(""))
	assert.False(t, isValidRequestID(string(make([]byte, 129))))
	assert.False(t, isValidRequestID("has\nnewline"))
	assert.True(t, isValidRequestID("ok-id-123"))
}
