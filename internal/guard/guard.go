// Package guard decides whether the current session may enter a
// console area. It is a pure, stateless gate over the session state,
// evaluated once per navigation attempt.
package guard

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segurosnorte/adminctl/internal/session"
)

// EntryPoint is where denied navigation is redirected: the
// unauthenticated login view.
const EntryPoint = "/"

// SessionInfo is the slice of session state the guard reads.
// Implemented by session.State.
type SessionInfo interface {
	IsAuthenticated() bool
	Role() (session.Role, bool)
	IsTokenExpiringSoon(threshold time.Duration) bool
}

// Decision is the outcome of a navigation check.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// allow is the single allowed decision.
var allow = Decision{Allowed: true}

func deny() Decision {
	return Decision{Allowed: false, RedirectTo: EntryPoint}
}

// RequireRoles evaluates a navigation attempt. An unauthenticated
// session is denied. A token close to expiry is flagged in the log but
// does not block. When allowed is non-empty, the current role must be
// a member; an empty allowed list means any authenticated user passes.
func RequireRoles(s SessionInfo, allowed ...session.Role) Decision {
	if !s.IsAuthenticated() {
		return deny()
	}

	if s.IsTokenExpiringSoon(session.DefaultExpiryWarning) {
		log.Warn().Msg("token is close to expiry, consider refreshing")
	}

	if len(allowed) > 0 {
		role, ok := s.Role()
		if !ok || !session.RoleIn(role, allowed) {
			return deny()
		}
	}

	return allow
}
