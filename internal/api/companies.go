package api

import (
	"context"
	"fmt"
	"net/http"
)

const companiesPath = "/api/Empresa"

// Company mirrors the server's company representation.
type Company struct {
	CompanyID string `json:"empresaId"`
	Name      string `json:"nombre"`
	TaxID     string `json:"rfc"`
	Active    bool   `json:"activo"`
}

// CompanyRequest carries the fields for creating or updating a
// company.
type CompanyRequest struct {
	Name   string `json:"nombre"`
	TaxID  string `json:"rfc"`
	Active bool   `json:"activo"`
}

// CompaniesService manages the company catalog.
type CompaniesService struct {
	client *Client
}

// Companies returns the companies service.
func (c *Client) Companies() *CompaniesService {
	return &CompaniesService{client: c}
}

// List returns all companies.
func (s *CompaniesService) List(ctx context.Context) ([]Company, error) {
	result, err := call[[]Company](ctx, s.client, http.MethodGet, companiesPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	if result == nil {
		return nil, nil
	}
	return *result, nil
}

// Create registers a new company.
func (s *CompaniesService) Create(ctx context.Context, req CompanyRequest) (*Company, error) {
	result, err := call[Company](ctx, s.client, http.MethodPost, companiesPath, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return result, nil
}

// Update replaces a company's fields.
func (s *CompaniesService) Update(ctx context.Context, id string, req CompanyRequest) (*Company, error) {
	result, err := call[Company](ctx, s.client, http.MethodPut, companiesPath+"/"+id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	return result, nil
}
