package api

import (
	"context"
	"net/http"

	"github.com/riordanpawley/vantage/internal/domain"
)

// GetProfile fetches the signed-in user's profile
func (c *Client) GetProfile(ctx context.Context, token string) (domain.Profile, error) {
	var p domain.Profile
	err := c.do(ctx, call{
		op:       "get profile",
		method:   http.MethodGet,
		path:     "/users/me",
		token:    token,
		fallback: "Failed to load profile",
	}, &p)
	return p, err
}

// UpdateProfile applies a partial profile update
func (c *Client) UpdateProfile(ctx context.Context, token string, update domain.ProfileUpdate) (domain.Profile, error) {
	var p domain.Profile
	err := c.do(ctx, call{
		op:       "update profile",
		method:   http.MethodPatch,
		path:     "/users/me",
		token:    token,
		body:     update,
		fallback: "Failed to update profile",
	}, &p)
	return p, err
}

// ChangePassword changes the signed-in user's password
func (c *Client) ChangePassword(ctx context.Context, token string, change domain.PasswordChange) (domain.Message, error) {
	var msg domain.Message
	err := c.do(ctx, call{
		op:       "change password",
		method:   http.MethodPost,
		path:     "/users/me/password",
		token:    token,
		body:     change,
		fallback: "Failed to change password",
	}, &msg)
	return msg, err
}

// DeleteAccount permanently removes the signed-in user's account
func (c *Client) DeleteAccount(ctx context.Context, token string) error {
	return c.do(ctx, call{
		op:       "delete account",
		method:   http.MethodDelete,
		path:     "/users/me",
		token:    token,
		fallback: "Failed to delete account",
	}, nil)
}

// GetNotificationSettings fetches notification preferences
func (c *Client) GetNotificationSettings(ctx context.Context, token string) (domain.NotificationSettings, error) {
	var s domain.NotificationSettings
	err := c.do(ctx, call{
		op:       "get notification settings",
		method:   http.MethodGet,
		path:     "/users/me/notifications",
		token:    token,
		fallback: "Failed to load notification settings",
	}, &s)
	return s, err
}

// UpdateNotificationSettings replaces notification preferences
func (c *Client) UpdateNotificationSettings(ctx context.Context, token string, settings domain.NotificationSettings) (domain.NotificationSettings, error) {
	var s domain.NotificationSettings
	err := c.do(ctx, call{
		op:       "update notification settings",
		method:   http.MethodPut,
		path:     "/users/me/notifications",
		token:    token,
		body:     settings,
		fallback: "Failed to save notification settings",
	}, &s)
	return s, err
}

// Ping checks that the backend is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, call{
		op:       "ping",
		method:   http.MethodGet,
		path:     "/health",
		fallback: "Server unreachable",
	}, nil)
}
