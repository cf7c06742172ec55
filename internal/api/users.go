package api

import (
	"context"
	"fmt"
	"net/http"
)

const usersPath = "/api/Usuarios"

// User mirrors the server's user representation.
type User struct {
	UserID     string `json:"usuarioId"`
	Email      string `json:"correo"`
	Name       string `json:"nombre"`
	ProfileID  int    `json:"perfilId"`
	Active     bool   `json:"activo"`
	FirstLogin bool   `json:"primeraVez"`
}

// CreateUserRequest carries the fields for a new user.
type CreateUserRequest struct {
	Email     string `json:"correo"`
	Name      string `json:"nombre"`
	Password  string `json:"password"`
	ProfileID int    `json:"perfilId"`
}

// UpdateUserRequest carries the mutable user fields.
type UpdateUserRequest struct {
	Email     string `json:"correo"`
	Name      string `json:"nombre"`
	ProfileID int    `json:"perfilId"`
	Active    bool   `json:"activo"`
}

// UsersService manages user records.
type UsersService struct {
	client *Client
}

// Users returns the users service.
func (c *Client) Users() *UsersService {
	return &UsersService{client: c}
}

// List returns all users.
func (s *UsersService) List(ctx context.Context) ([]User, error) {
	result, err := call[[]User](ctx, s.client, http.MethodGet, usersPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if result == nil {
		return nil, nil
	}
	return *result, nil
}

// Get returns a single user by id.
func (s *UsersService) Get(ctx context.Context, id string) (*User, error) {
	result, err := call[User](ctx, s.client, http.MethodGet, usersPath+"/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return result, nil
}

// Create registers a new user.
func (s *UsersService) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	result, err := call[User](ctx, s.client, http.MethodPost, usersPath, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return result, nil
}

// Update replaces a user's mutable fields.
func (s *UsersService) Update(ctx context.Context, id string, req UpdateUserRequest) (*User, error) {
	result, err := call[User](ctx, s.client, http.MethodPut, usersPath+"/"+id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return result, nil
}

// Delete removes a user.
func (s *UsersService) Delete(ctx context.Context, id string) error {
	if _, err := call[bool](ctx, s.client, http.MethodDelete, usersPath+"/"+id, nil); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// SetActive toggles a user's active flag.
func (s *UsersService) SetActive(ctx context.Context, id string, active bool) error {
	body := map[string]bool{"activo": active}
	if _, err := call[bool](ctx, s.client, http.MethodPut, usersPath+"/"+id+"/estado", body); err != nil {
		return fmt.Errorf("failed to update user state: %w", err)
	}
	return nil
}
