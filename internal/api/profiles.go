package api

import (
	"context"
	"fmt"
	"net/http"
)

const profilesPath = "/api/Perfil"

// Profile mirrors the server's profile catalog entry. Profiles are the
// server-side source of the role mapping.
type Profile struct {
	ProfileID   int    `json:"perfilId"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
}

// ProfilesService reads the profile catalog. The catalog changes
// rarely, which is why the client's caching transport pays off here.
type ProfilesService struct {
	client *Client
}

// Profiles returns the profiles service.
func (c *Client) Profiles() *ProfilesService {
	return &ProfilesService{client: c}
}

// List returns the profile catalog.
func (s *ProfilesService) List(ctx context.Context) ([]Profile, error) {
	result, err := call[[]Profile](ctx, s.client, http.MethodGet, profilesPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	if result == nil {
		return nil, nil
	}
	return *result, nil
}
