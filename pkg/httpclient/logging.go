package httpclient

import (
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// LogRequests returns a middleware that logs each outgoing request with its
// method, URL, status, and duration. When lg is nil the logger is taken from
// the request context via zctx.
func LogRequests(lg *zap.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			logger := lg
			if logger == nil {
				logger = zctx.From(r.Context())
			}

			start := time.Now()
			resp, err := next.RoundTrip(r)
			elapsed := time.Since(start)

			if err != nil {
				logger.Warn("Request failed",
					zap.String("method", r.Method),
					zap.String("url", r.URL.String()),
					zap.Duration("duration", elapsed),
					zap.Error(err),
				)
				return nil, err
			}

			logger.Debug("Request completed",
				zap.String("method", r.Method),
				zap.String("url", r.URL.String()),
				zap.Int("status", resp.StatusCode),
				zap.Duration("duration", elapsed),
			)
			return resp, nil
		})
	}
}
