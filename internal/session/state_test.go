package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuth is a scripted Authenticator.
type fakeAuth struct {
	loginResult  *LoginResult
	loginErr     error
	refreshToken string
	refreshErr   error
}

func (f *fakeAuth) Login(ctx context.Context, identifier, secret string) (*LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResult, nil
}

func (f *fakeAuth) Refresh(ctx context.Context, token string) (string, error) {
	if f.refreshErr != nil {
		return "", f.refreshErr
	}
	return f.refreshToken, nil
}

func liveToken(t *testing.T) string {
	t.Helper()
	return signedToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
}

func expiredToken(t *testing.T) string {
	t.Helper()
	return signedToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})
}

func TestState_LoginRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	// Opaque header and signature segments; only the payload matters.
	auth := &fakeAuth{loginResult: &LoginResult{
		Token: "h.eyJleHAiOjk5OTk5OTk5OTl9.s",
		User: &CurrentUser{
			UserID:      "u1",
			Email:       "a@b.com",
			DisplayName: "Ana",
			ProfileID:   1,
			Role:        RoleForProfile(1),
			Active:      true,
		},
	}}

	navigated := 0
	state := NewState(store, auth, WithNavigator(func() { navigated++ }))

	require.True(t, state.Login(context.Background(), "a@b.com", "pw"))

	assert.True(t, state.IsAuthenticated())
	role, ok := state.Role()
	require.True(t, ok)
	assert.Equal(t, Role("Administrador"), role)
	assert.True(t, state.HasRole([]Role{RoleAdministrator, RoleSupervisor}))
	assert.False(t, state.HasRole([]Role{RoleClient}))

	user := state.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "Ana", user.DisplayName)

	// Token and user were persisted together
	stored, err := store.User()
	require.NoError(t, err)
	assert.Equal(t, "u1", stored.UserID)

	state.Logout()

	assert.False(t, state.IsAuthenticated())
	_, ok = state.Role()
	assert.False(t, ok)
	assert.Nil(t, state.CurrentUser())
	assert.Equal(t, 1, navigated)

	_, err = store.Token()
	require.ErrorIs(t, err, ErrNoSession)
}

func TestState_LoginFailureModes(t *testing.T) {
	t.Run("rejected credentials resolve false", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		auth := &fakeAuth{loginErr: errors.New("login rejected")}
		state := NewState(store, auth)

		assert.False(t, state.Login(context.Background(), "a@b.com", "bad"))
		assert.False(t, state.IsAuthenticated())
		assert.Nil(t, state.CurrentUser())
	})

	t.Run("transport failure resolves false", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		auth := &fakeAuth{loginErr: errors.New("connection refused")}
		state := NewState(store, auth)

		assert.False(t, state.Login(context.Background(), "a@b.com", "pw"))
		assert.False(t, state.IsAuthenticated())
	})
}

func TestState_NotifyOrdering(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	token := liveToken(t)
	auth := &fakeAuth{loginResult: &LoginResult{
		Token: token,
		User:  &CurrentUser{UserID: "u1", ProfileID: 3, Role: RoleStandard},
	}}

	state := NewState(store, auth)

	var observed []*CurrentUser
	state.OnChange(func(user *CurrentUser) {
		// Persistence happens before notification: the store already
		// holds the token when subscribers run.
		stored, err := store.Token()
		require.NoError(t, err)
		assert.Equal(t, token, stored)
		observed = append(observed, user)
	})

	require.True(t, state.Login(context.Background(), "a@b.com", "pw"))
	require.Len(t, observed, 1)
	assert.Equal(t, "u1", observed[0].UserID)

	state.Logout()
	require.Len(t, observed, 2)
	assert.Nil(t, observed[1])
}

func TestState_Rehydration(t *testing.T) {
	t.Run("live token restores the user", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewStore(dir)
		require.NoError(t, err)
		require.NoError(t, store.SaveSession(liveToken(t), &CurrentUser{UserID: "u1", Role: RoleClient}))

		state := NewState(store, &fakeAuth{})

		user := state.CurrentUser()
		require.NotNil(t, user)
		assert.Equal(t, "u1", user.UserID)
		assert.True(t, state.IsAuthenticated())
	})

	t.Run("expired token leaves the user out", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewStore(dir)
		require.NoError(t, err)
		require.NoError(t, store.SaveSession(expiredToken(t), &CurrentUser{UserID: "u1", Role: RoleClient}))

		state := NewState(store, &fakeAuth{})

		// The stored user record is ignored behind a dead token
		assert.Nil(t, state.CurrentUser())
		assert.False(t, state.IsAuthenticated())
		_, ok := state.Role()
		assert.False(t, ok)
	})
}

func TestState_Refresh(t *testing.T) {
	t.Run("success replaces the token", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, store.SaveSession(liveToken(t), &CurrentUser{UserID: "u1"}))

		replacement := liveToken(t)
		state := NewState(store, &fakeAuth{refreshToken: replacement})

		require.True(t, state.Refresh(context.Background()))

		token, err := store.Token()
		require.NoError(t, err)
		assert.Equal(t, replacement, token)

		// The user record survives a refresh
		user, err := store.User()
		require.NoError(t, err)
		assert.Equal(t, "u1", user.UserID)
	})

	t.Run("failure terminates the session", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, store.SaveSession(liveToken(t), &CurrentUser{UserID: "u1"}))

		navigated := 0
		state := NewState(store, &fakeAuth{refreshErr: errors.New("refresh rejected")},
			WithNavigator(func() { navigated++ }))

		assert.False(t, state.Refresh(context.Background()))
		assert.False(t, state.IsAuthenticated())
		assert.Equal(t, 1, navigated)

		_, err = store.Token()
		require.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("no stored token resolves false without side effects", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		navigated := 0
		state := NewState(store, &fakeAuth{}, WithNavigator(func() { navigated++ }))

		assert.False(t, state.Refresh(context.Background()))
		assert.Equal(t, 0, navigated)
	})
}

func TestState_IsTokenExpiringSoon(t *testing.T) {
	t.Run("no stored token", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)
		state := NewState(store, &fakeAuth{})

		assert.False(t, state.IsTokenExpiringSoon(DefaultExpiryWarning))
	})

	t.Run("token inside the warning window", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)
		near := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(2 * time.Minute).Unix()})
		require.NoError(t, store.SaveSession(near, &CurrentUser{UserID: "u1"}))

		state := NewState(store, &fakeAuth{})
		assert.True(t, state.IsTokenExpiringSoon(DefaultExpiryWarning))
	})

	t.Run("undecodable stored token fails closed", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, store.SaveSession("garbage", &CurrentUser{UserID: "u1"}))

		state := NewState(store, &fakeAuth{})
		assert.True(t, state.IsTokenExpiringSoon(DefaultExpiryWarning))
	})
}

func TestState_LogoutIsIdempotent(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	navigated := 0
	state := NewState(store, &fakeAuth{}, WithNavigator(func() { navigated++ }))

	state.Logout()
	state.Logout()

	assert.False(t, state.IsAuthenticated())
	assert.Equal(t, 2, navigated)
}
