package client

// Session carries the authenticated backend session for one register. It is
// constructed once at startup and passed explicitly to every collaborator
// instead of being read from ambient storage per request.
type Session struct {
	token string
}

// NewSession creates a Session holding the given bearer token.
func NewSession(token string) *Session {
	return &Session{token: token}
}

// Token returns the bearer token attached to outgoing requests.
func (s *Session) Token() string {
	return s.token
}
