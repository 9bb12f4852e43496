package api

import (
	"context"
	"net/http"

	"github.com/riordanpawley/vantage/internal/domain"
)

// GetEnterprise fetches the enterprise profile of the signed-in owner
func (c *Client) GetEnterprise(ctx context.Context, token string) (domain.Enterprise, error) {
	var e domain.Enterprise
	err := c.do(ctx, call{
		op:       "get enterprise",
		method:   http.MethodGet,
		path:     "/enterprise",
		token:    token,
		fallback: "Failed to load enterprise profile",
	}, &e)
	return e, err
}

// CreateEnterprise creates the enterprise profile
func (c *Client) CreateEnterprise(ctx context.Context, token string, e domain.Enterprise) (domain.Enterprise, error) {
	var created domain.Enterprise
	err := c.do(ctx, call{
		op:       "create enterprise",
		method:   http.MethodPost,
		path:     "/enterprise",
		token:    token,
		body:     e,
		fallback: "Failed to create enterprise profile",
	}, &created)
	return created, err
}

// UpdateEnterprise updates the enterprise profile
func (c *Client) UpdateEnterprise(ctx context.Context, token string, e domain.Enterprise) (domain.Enterprise, error) {
	var updated domain.Enterprise
	err := c.do(ctx, call{
		op:       "update enterprise",
		method:   http.MethodPatch,
		path:     "/enterprise",
		token:    token,
		body:     e,
		fallback: "Failed to update enterprise profile",
	}, &updated)
	return updated, err
}

// DeleteEnterprise removes the enterprise profile
func (c *Client) DeleteEnterprise(ctx context.Context, token string) error {
	return c.do(ctx, call{
		op:       "delete enterprise",
		method:   http.MethodDelete,
		path:     "/enterprise",
		token:    token,
		fallback: "Failed to delete enterprise profile",
	}, nil)
}
