package client

// ConnectionError wraps a transport-level failure: network unreachable,
// malformed response, or any reply outside the backend's envelope contract.
// It renders as a generic connection message; the underlying cause stays
// available via Unwrap for logging.
type ConnectionError struct {
	cause error
}

func (e *ConnectionError) Error() string {
	return "connection error: " + e.cause.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.cause
}

// RejectedError carries a business-rule rejection from the backend, with the
// server's message passed through verbatim for display.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return e.Message
}
