package transport

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// SessionTerminator ends the current session. Implemented by
// session.State; the Logout implementation also returns the console to
// the unauthenticated entry point.
type SessionTerminator interface {
	Logout()
}

// AuthorizationWatcher is an http.RoundTripper that observes every
// response in the pipeline. A 401 terminates the session; a 403 is
// reported but the session continues. The response always flows back
// to the caller unchanged, so request issuers still observe the
// failure through their normal channel. This is a side-effecting tap:
// it never retries or re-authenticates mid-flight.
type AuthorizationWatcher struct {
	base    http.RoundTripper
	session SessionTerminator
}

// NewAuthorizationWatcher wraps base with 401/403 handling. A nil base
// uses http.DefaultTransport.
func NewAuthorizationWatcher(base http.RoundTripper, session SessionTerminator) *AuthorizationWatcher {
	if base == nil {
		base = http.DefaultTransport
	}
	return &AuthorizationWatcher{base: base, session: session}
}

// RoundTrip implements http.RoundTripper.
func (w *AuthorizationWatcher) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := w.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		log.Warn().
			Str("path", req.URL.Path).
			Msg("received 401, terminating session")
		w.session.Logout()
	case http.StatusForbidden:
		log.Warn().
			Str("path", req.URL.Path).
			Msg("access denied")
	}

	return resp, nil
}
