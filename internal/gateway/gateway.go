// Package gateway performs the authentication exchange against the
// remote admin API. It speaks the API's JSON envelope and maps the
// server's user payload into the session's domain record.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segurosnorte/adminctl/internal/session"
)

const (
	// LoginPath is the authentication endpoint.
	LoginPath = "/api/Auth/login"

	// RefreshPath is the token refresh endpoint.
	RefreshPath = "/api/Auth/refresh"
)

// Sentinel errors
var (
	// ErrLoginRejected is returned when the server declined the
	// credentials. Distinct from transport failures so callers can log
	// the difference, even though both collapse to a failed login.
	ErrLoginRejected = errors.New("login rejected")

	// ErrRefreshRejected is returned when the server declined to
	// refresh the token.
	ErrRefreshRejected = errors.New("refresh rejected")
)

// envelope is the API's standard response wrapper.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Result  *T     `json:"result"`
}

// userPayload mirrors the server's user representation.
type userPayload struct {
	UserID     string `json:"usuarioId"`
	Email      string `json:"correo"`
	Name       string `json:"nombre"`
	ProfileID  int    `json:"perfilId"`
	Active     bool   `json:"activo"`
	FirstLogin bool   `json:"primeraVez"`
}

type loginResult struct {
	Token string      `json:"token"`
	User  userPayload `json:"usuario"`
}

type refreshResult struct {
	Token string `json:"token"`
}

// Gateway exchanges credentials and tokens with the remote API.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a gateway for the API at baseURL. The client timeout is
// the only cancellation this layer adds; individual calls also honour
// their context.
func New(baseURL string, timeout time.Duration) *Gateway {
	return &Gateway{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewWithClient creates a gateway using the provided HTTP client.
func NewWithClient(baseURL string, httpClient *http.Client) *Gateway {
	return &Gateway{baseURL: baseURL, httpClient: httpClient}
}

// Login issues a single POST to the login endpoint. The identifier is
// sent as "username" to match the remote contract. A declined
// credential returns ErrLoginRejected; transport and decode failures
// return their underlying cause. No retry is attempted.
func (g *Gateway) Login(ctx context.Context, identifier, secret string) (*session.LoginResult, error) {
	body := map[string]string{
		"username": identifier,
		"password": secret,
	}

	var resp envelope[loginResult]
	if err := g.post(ctx, LoginPath, body, &resp); err != nil {
		return nil, err
	}

	if !resp.Success || resp.Result == nil {
		log.Debug().Str("message", resp.Message).Msg("server declined login")
		return nil, ErrLoginRejected
	}

	user := mapUser(resp.Result.User)

	log.Debug().
		Str("userID", user.UserID).
		Int("profileID", user.ProfileID).
		Msg("login exchange succeeded")

	return &session.LoginResult{
		Token: resp.Result.Token,
		User:  user,
	}, nil
}

// Refresh posts the current token to the refresh endpoint and returns
// the replacement. Failure is terminal for the session; no retry loop
// lives here.
func (g *Gateway) Refresh(ctx context.Context, token string) (string, error) {
	body := map[string]string{"token": token}

	var resp envelope[refreshResult]
	if err := g.post(ctx, RefreshPath, body, &resp); err != nil {
		return "", err
	}

	if !resp.Success || resp.Result == nil {
		return "", ErrRefreshRejected
	}

	return resp.Result.Token, nil
}

// mapUser derives the domain user from the server payload. The role is
// fixed here, once, from the profile id.
func mapUser(p userPayload) *session.CurrentUser {
	return &session.CurrentUser{
		UserID:      p.UserID,
		Email:       p.Email,
		DisplayName: p.Name,
		ProfileID:   p.ProfileID,
		Role:        session.RoleForProfile(p.ProfileID),
		Active:      p.Active,
		FirstLogin:  p.FirstLogin,
	}
}

func (g *Gateway) post(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("auth endpoint returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode auth response: %w", err)
	}

	return nil
}
