package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mr-tron/base58"
	"github.com/rs/zerolog/log"
)

// Sentinel errors
var (
	// ErrNoSession is returned when no token is stored.
	ErrNoSession = errors.New("no session stored")

	// ErrNoUser is returned when no user record is stored.
	ErrNoUser = errors.New("no user record stored")
)

// stateFile is the on-disk layout of the persisted session.
type stateFile struct {
	Version    int             `json:"version"`
	ClientID   string          `json:"client_id"`
	Token      string          `json:"token,omitempty"`
	User       *CurrentUser    `json:"user,omitempty"`
	ClientData json.RawMessage `json:"client_data,omitempty"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Store persists the bearer token, the derived user record and an
// optional client data blob on the local filesystem. It is the sole
// writer of the persisted session bytes; all state lives in a single
// file so that logout clears everything in one write.
type Store struct {
	baseDir string
}

// NewStore creates a session store rooted at baseDir.
// If baseDir is empty, uses ~/.adminctl/session/
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".adminctl", "session")
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	store := &Store{baseDir: baseDir}

	if err := store.ensureState(); err != nil {
		return nil, err
	}

	log.Debug().Str("baseDir", baseDir).Msg("session store initialized")

	return store, nil
}

// ClientID returns the stable install fingerprint generated when the
// store was first created. It identifies this console install to the
// API for correlation, not for authentication.
func (s *Store) ClientID() (string, error) {
	st, err := s.load()
	if err != nil {
		return "", err
	}
	return st.ClientID, nil
}

// Token returns the stored bearer token, or ErrNoSession when absent.
func (s *Store) Token() (string, error) {
	st, err := s.load()
	if err != nil {
		return "", err
	}
	if st.Token == "" {
		return "", ErrNoSession
	}
	return st.Token, nil
}

// User returns the stored user record, or ErrNoUser when absent.
func (s *Store) User() (*CurrentUser, error) {
	st, err := s.load()
	if err != nil {
		return nil, err
	}
	if st.User == nil {
		return nil, ErrNoUser
	}
	user := *st.User
	return &user, nil
}

// SaveSession stores the token and user record together.
func (s *Store) SaveSession(token string, user *CurrentUser) error {
	st, err := s.load()
	if err != nil {
		return err
	}

	st.Token = token
	st.User = user
	st.UpdatedAt = time.Now().UTC()

	if err := s.save(st); err != nil {
		return err
	}

	log.Debug().Str("userID", user.UserID).Msg("session persisted")

	return nil
}

// ReplaceToken swaps the stored token, leaving the user record intact.
// Used by the refresh flow.
func (s *Store) ReplaceToken(token string) error {
	st, err := s.load()
	if err != nil {
		return err
	}
	if st.Token == "" {
		return ErrNoSession
	}

	st.Token = token
	st.UpdatedAt = time.Now().UTC()

	return s.save(st)
}

// SaveClientData stores an opaque auxiliary blob alongside the session.
func (s *Store) SaveClientData(data json.RawMessage) error {
	st, err := s.load()
	if err != nil {
		return err
	}

	st.ClientData = data
	st.UpdatedAt = time.Now().UTC()

	return s.save(st)
}

// ClientData returns the stored auxiliary blob, which may be nil.
func (s *Store) ClientData() (json.RawMessage, error) {
	st, err := s.load()
	if err != nil {
		return nil, err
	}
	return st.ClientData, nil
}

// Clear removes the token, user record and client data in a single
// write. The client fingerprint survives logout. Safe to call when no
// session is stored.
func (s *Store) Clear() error {
	st, err := s.load()
	if err != nil {
		return err
	}

	st.Token = ""
	st.User = nil
	st.ClientData = nil
	st.UpdatedAt = time.Now().UTC()

	if err := s.save(st); err != nil {
		return err
	}

	log.Debug().Msg("session cleared")

	return nil
}

// ensureState creates an empty state file with a fresh client
// fingerprint if one doesn't exist.
func (s *Store) ensureState() error {
	statePath := filepath.Join(s.baseDir, "state.json")

	if _, err := os.Stat(statePath); err == nil {
		return nil // State exists
	}

	clientID, err := newClientID()
	if err != nil {
		return err
	}

	st := &stateFile{
		Version:   1,
		ClientID:  clientID,
		UpdatedAt: time.Now().UTC(),
	}

	return s.save(st)
}

// newClientID derives a Base58-encoded fingerprint from random bytes.
func newClientID() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to generate client id: %w", err)
	}

	hash := sha256.Sum256(buf[:])
	return base58.Encode(hash[:]), nil
}

// load reads the state file.
func (s *Store) load() (*stateFile, error) {
	statePath := filepath.Join(s.baseDir, "state.json")

	data, err := os.ReadFile(statePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}

	var st stateFile
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse session state: %w", err)
	}

	return &st, nil
}

// save writes the state file atomically.
func (s *Store) save(st *stateFile) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}

	// Write to temp file first
	statePath := filepath.Join(s.baseDir, "state.json")
	tempPath := statePath + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session state: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, statePath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save session state: %w", err)
	}

	return nil
}
