package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Authenticator performs the login/refresh network exchange against the
// remote API. Implemented by gateway.Gateway; faked in tests.
type Authenticator interface {
	// Login exchanges credentials for a token and user payload.
	// A rejected credential surfaces as an error, not a nil result.
	Login(ctx context.Context, identifier, secret string) (*LoginResult, error)

	// Refresh exchanges the current token for a replacement.
	Refresh(ctx context.Context, token string) (string, error)
}

// LoginResult carries the outcome of a successful authentication.
type LoginResult struct {
	Token string
	User  *CurrentUser
}

// State is the process-wide session: it owns the in-memory mirror of
// the persisted user record and is the only component that pushes
// session transitions to subscribers. Construct one per application
// lifetime and pass it by reference to consumers.
//
// The persisted token remains the source of truth for authentication;
// expiry is evaluated lazily on each query, never by a background
// timer.
type State struct {
	store *Store
	auth  Authenticator

	// navigate is invoked after logout to return the console to the
	// unauthenticated entry point.
	navigate func()

	mu      sync.RWMutex
	current *CurrentUser
	subs    []func(*CurrentUser)
}

// Option configures a State.
type Option func(*State)

// WithNavigator sets the hook invoked when the session ends and the
// console must return to the unauthenticated entry point.
func WithNavigator(fn func()) Option {
	return func(s *State) { s.navigate = fn }
}

// NewState builds the session state, rehydrating the in-memory user
// from storage only when a non-expired token is present. A stored user
// record behind an expired token is ignored, keeping the invariant
// that a current user exists iff a live token does.
func NewState(store *Store, auth Authenticator, opts ...Option) *State {
	s := &State{
		store:    store,
		auth:     auth,
		navigate: func() {},
	}

	for _, opt := range opts {
		opt(s)
	}

	token, err := store.Token()
	if err == nil && !IsExpired(token) {
		if user, err := store.User(); err == nil {
			s.current = user
			log.Debug().Str("userID", user.UserID).Msg("session rehydrated from storage")
		}
	}

	return s
}

// OnChange registers a subscriber invoked synchronously on every
// session transition, after persistence and before the mutating call
// returns. The callback receives the new user, or nil on logout.
func (s *State) OnChange(fn func(*CurrentUser)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Login authenticates against the remote API. It resolves true only
// when the exchange succeeded and the session was persisted; every
// failure mode (rejected credentials, transport failure, malformed
// response, persistence failure) collapses to false. The error detail
// goes to the log, never to the caller.
func (s *State) Login(ctx context.Context, identifier, secret string) bool {
	result, err := s.auth.Login(ctx, identifier, secret)
	if err != nil {
		log.Warn().Err(err).Str("identifier", identifier).Msg("login failed")
		return false
	}

	user := *result.User

	// Persist before publishing so subscribers never observe a user
	// the store doesn't have.
	if err := s.store.SaveSession(result.Token, &user); err != nil {
		log.Error().Err(err).Msg("failed to persist session")
		return false
	}

	s.publish(&user)

	log.Info().
		Str("userID", user.UserID).
		Str("role", string(user.Role)).
		Msg("login succeeded")

	return true
}

// Logout clears the persisted token, user record and client data,
// publishes the nil user and returns the console to the entry point.
// Idempotent; safe to call when already logged out.
func (s *State) Logout() {
	if err := s.store.Clear(); err != nil {
		log.Error().Err(err).Msg("failed to clear persisted session")
	}

	s.publish(nil)
	s.navigate()

	log.Info().Msg("logged out")
}

// Refresh exchanges the stored token for a replacement. A missing
// token or a failed exchange terminates the session; refresh failure
// is not treated as a retryable transient error.
func (s *State) Refresh(ctx context.Context) bool {
	token, err := s.store.Token()
	if err != nil {
		return false
	}

	replacement, err := s.auth.Refresh(ctx, token)
	if err != nil {
		log.Warn().Err(err).Msg("token refresh failed, terminating session")
		s.Logout()
		return false
	}

	if err := s.store.ReplaceToken(replacement); err != nil {
		log.Error().Err(err).Msg("failed to persist refreshed token")
		s.Logout()
		return false
	}

	log.Debug().Msg("token refreshed")

	return true
}

// IsAuthenticated reports whether a token exists and is not expired.
// Querying never mutates state, even when the token has lapsed.
func (s *State) IsAuthenticated() bool {
	token, err := s.store.Token()
	if err != nil {
		return false
	}
	return !IsExpired(token)
}

// Token returns the stored bearer token, or the empty string.
func (s *State) Token() string {
	token, err := s.store.Token()
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			log.Error().Err(err).Msg("failed to read stored token")
		}
		return ""
	}
	return token
}

// CurrentUser returns the in-memory user record, or nil when no
// session is active.
func (s *State) CurrentUser() *CurrentUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	user := *s.current
	return &user
}

// Role returns the current user's role. The second value is false when
// no user is logged in.
func (s *State) Role() (Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return "", false
	}
	return s.current.Role, true
}

// HasRole reports whether the current role is a member of candidates.
func (s *State) HasRole(candidates []Role) bool {
	role, ok := s.Role()
	if !ok {
		return false
	}
	return RoleIn(role, candidates)
}

// IsFirstLogin reports whether the current user is logging in for the
// first time.
func (s *State) IsFirstLogin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.current.FirstLogin
}

// IsTokenExpiringSoon reports whether the stored token's remaining
// lifetime is below threshold. No stored token reports false; a stored
// but undecodable token reports true (fail-closed).
func (s *State) IsTokenExpiringSoon(threshold time.Duration) bool {
	token, err := s.store.Token()
	if err != nil {
		return false
	}
	return ExpiresWithin(token, threshold)
}

// publish updates the in-memory mirror and notifies subscribers.
// Subscribers run synchronously so callers observe write, then notify,
// then their own result, in that order.
func (s *State) publish(user *CurrentUser) {
	s.mu.Lock()
	s.current = user
	subs := make([]func(*CurrentUser), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(user)
	}
}
