// Package transport provides the request/response interceptors that
// wrap every HTTP exchange with the admin API: attaching bearer tokens
// on the way out, and reacting to authorization failures on the way
// back in.
package transport

import (
	"net/http"
	"strings"
)

// exemptPathFragments lists the path fragments that never receive an
// Authorization header. Matching is by substring, not exact path.
var exemptPathFragments = []string{
	"/Auth/login",
	"/Auth/register",
}

// TokenSource exposes the session's token to the outbound interceptor.
// Implemented by session.State.
type TokenSource interface {
	Token() string
	IsAuthenticated() bool
}

// Authenticator is an http.RoundTripper that attaches the session's
// bearer token to every eligible outgoing request. Requests to the
// login and registration endpoints are forwarded unmodified, as is any
// request made while no live session exists.
type Authenticator struct {
	base    http.RoundTripper
	session TokenSource
}

// NewAuthenticator wraps base with bearer token injection. A nil base
// uses http.DefaultTransport.
func NewAuthenticator(base http.RoundTripper, session TokenSource) *Authenticator {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Authenticator{base: base, session: session}
}

// RoundTrip implements http.RoundTripper. The request is cloned before
// mutation, per the RoundTripper contract.
func (a *Authenticator) RoundTrip(req *http.Request) (*http.Response, error) {
	if isExemptPath(req.URL.Path) {
		return a.base.RoundTrip(req)
	}

	token := a.session.Token()
	if token == "" || !a.session.IsAuthenticated() {
		return a.base.RoundTrip(req)
	}

	authReq := req.Clone(req.Context())
	authReq.Header.Set("Authorization", "Bearer "+token)

	return a.base.RoundTrip(authReq)
}

func isExemptPath(path string) bool {
	for _, fragment := range exemptPathFragments {
		if strings.Contains(path, fragment) {
			return true
		}
	}
	return false
}
