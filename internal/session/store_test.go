package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *CurrentUser {
	return &CurrentUser{
		UserID:      "u1",
		Email:       "ana@example.com",
		DisplayName: "Ana",
		ProfileID:   1,
		Role:        RoleAdministrator,
		Active:      true,
	}
}

func TestNewStore(t *testing.T) {
	t.Run("creates directory with correct permissions", func(t *testing.T) {
		tmpDir := t.TempDir()
		sessionDir := filepath.Join(tmpDir, "session")

		store, err := NewStore(sessionDir)
		require.NoError(t, err)
		assert.NotNil(t, store)

		info, err := os.Stat(sessionDir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
	})

	t.Run("creates state file with a client fingerprint", func(t *testing.T) {
		tmpDir := t.TempDir()
		store, err := NewStore(tmpDir)
		require.NoError(t, err)

		statePath := filepath.Join(tmpDir, "state.json")
		info, err := os.Stat(statePath)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

		clientID, err := store.ClientID()
		require.NoError(t, err)
		assert.NotEmpty(t, clientID)
	})

	t.Run("client fingerprint survives reopening", func(t *testing.T) {
		tmpDir := t.TempDir()

		store, err := NewStore(tmpDir)
		require.NoError(t, err)
		first, err := store.ClientID()
		require.NoError(t, err)

		reopened, err := NewStore(tmpDir)
		require.NoError(t, err)
		second, err := reopened.ClientID()
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

func TestStore_SaveSession(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(tmpDir)
	require.NoError(t, err)

	// Empty store reports no session
	_, err = store.Token()
	require.ErrorIs(t, err, ErrNoSession)
	_, err = store.User()
	require.ErrorIs(t, err, ErrNoUser)

	require.NoError(t, store.SaveSession("tok-1", testUser()))

	token, err := store.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	user, err := store.User()
	require.NoError(t, err)
	assert.Equal(t, "u1", user.UserID)
	assert.Equal(t, RoleAdministrator, user.Role)
}

func TestStore_ReplaceToken(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(tmpDir)
	require.NoError(t, err)

	t.Run("fails without a session", func(t *testing.T) {
		require.ErrorIs(t, store.ReplaceToken("tok-2"), ErrNoSession)
	})

	t.Run("swaps the token and keeps the user", func(t *testing.T) {
		require.NoError(t, store.SaveSession("tok-1", testUser()))
		require.NoError(t, store.ReplaceToken("tok-2"))

		token, err := store.Token()
		require.NoError(t, err)
		assert.Equal(t, "tok-2", token)

		user, err := store.User()
		require.NoError(t, err)
		assert.Equal(t, "u1", user.UserID)
	})
}

func TestStore_ClientData(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(tmpDir)
	require.NoError(t, err)

	blob := json.RawMessage(`{"clienteId":"c9"}`)
	require.NoError(t, store.SaveClientData(blob))

	got, err := store.ClientData()
	require.NoError(t, err)
	assert.JSONEq(t, string(blob), string(got))
}

func TestStore_Clear(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(tmpDir)
	require.NoError(t, err)

	clientID, err := store.ClientID()
	require.NoError(t, err)

	require.NoError(t, store.SaveSession("tok-1", testUser()))
	require.NoError(t, store.SaveClientData(json.RawMessage(`{"k":"v"}`)))

	require.NoError(t, store.Clear())

	// Token, user and client data all go at once
	_, err = store.Token()
	require.ErrorIs(t, err, ErrNoSession)
	_, err = store.User()
	require.ErrorIs(t, err, ErrNoUser)
	data, err := store.ClientData()
	require.NoError(t, err)
	assert.Nil(t, data)

	// The install fingerprint survives logout
	after, err := store.ClientID()
	require.NoError(t, err)
	assert.Equal(t, clientID, after)

	// Clearing an already empty store is fine
	require.NoError(t, store.Clear())
}
