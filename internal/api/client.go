// Package api wraps the admin API's CRUD endpoints in thin typed
// services. Every call flows through the authenticated transport
// chain, so bearer tokens and 401 handling come for free.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gregjones/httpcache"
	"github.com/rs/zerolog"
	"github.com/segurosnorte/adminctl/internal/logger"
	"github.com/segurosnorte/adminctl/internal/transport"
)

// ErrRequestFailed is returned when the API reports success=false
// without further detail.
var ErrRequestFailed = errors.New("api request failed")

// Session is the slice of session state the client needs: a token for
// outgoing requests and a way to terminate on 401.
type Session interface {
	transport.TokenSource
	transport.SessionTerminator
}

// Config holds common client configuration.
type Config struct {
	ServerURL string
	Timeout   time.Duration
	ClientID  string

	// Cache enables an in-memory HTTP cache under the auth transport,
	// for read-mostly catalog endpoints that send Cache-Control.
	Cache bool
}

// Client is the base API client. Obtain typed services from it via
// Users, Companies and Profiles.
type Client struct {
	baseURL    string
	clientID   string
	httpClient *http.Client
}

// New assembles the client's transport chain: request logging closest
// to the wire, optional response caching above it, bearer injection
// above that, and the 401/403 watcher outermost so it observes every
// response.
func New(cfg Config, session Session, log zerolog.Logger) *Client {
	var base http.RoundTripper = logger.NewRequests(nil, log)

	if cfg.Cache {
		cached := httpcache.NewTransport(httpcache.NewMemoryCache())
		cached.Transport = base
		base = cached
	}

	base = transport.NewAuthenticator(base, session)
	base = transport.NewAuthorizationWatcher(base, session)

	return &Client{
		baseURL:  cfg.ServerURL,
		clientID: cfg.ClientID,
		httpClient: &http.Client{
			Transport: base,
			Timeout:   cfg.Timeout,
		},
	}
}

// envelope is the API's standard response wrapper.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Result  *T     `json:"result"`
}

// call issues a request and decodes the enveloped result. Mutating
// requests carry a UUID request id so the server can deduplicate
// retried submissions.
func call[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.clientID != "" {
		req.Header.Set("X-Client-Id", c.clientID)
	}
	if method != http.MethodGet {
		req.Header.Set("X-Request-Id", uuid.New().String())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api returned HTTP %d for %s %s", resp.StatusCode, method, path)
	}

	var env envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode api response: %w", err)
	}

	if !env.Success {
		if env.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrRequestFailed, env.Message)
		}
		return nil, ErrRequestFailed
	}

	return env.Result, nil
}
