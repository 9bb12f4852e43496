package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/riordanpawley/vantage/internal/domain"
)

// Login exchanges credentials for a token pair
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.TokenPair, error) {
	var pair domain.TokenPair
	err := c.do(ctx, call{
		op:       "login",
		method:   http.MethodPost,
		path:     "/auth/login",
		body:     creds,
		fallback: "Login failed",
	}, &pair)
	return pair, err
}

// Register creates an account; the backend sends a verification email
func (c *Client) Register(ctx context.Context, reg domain.Registration) (domain.Message, error) {
	var msg domain.Message
	err := c.do(ctx, call{
		op:       "register",
		method:   http.MethodPost,
		path:     "/auth/register",
		body:     reg,
		fallback: "Registration failed",
	}, &msg)
	return msg, err
}

// RequestPasswordReset asks the backend to email a reset link
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (domain.Message, error) {
	var msg domain.Message
	err := c.do(ctx, call{
		op:       "request password reset",
		method:   http.MethodPost,
		path:     "/auth/password-reset",
		body:     map[string]string{"email": email},
		fallback: "Could not send password reset email",
	}, &msg)
	return msg, err
}

// ConfirmPasswordReset sets a new password using the uid/token from the link
func (c *Client) ConfirmPasswordReset(ctx context.Context, req domain.PasswordResetConfirm) (domain.Message, error) {
	var msg domain.Message
	err := c.do(ctx, call{
		op:       "confirm password reset",
		method:   http.MethodPost,
		path:     "/auth/password-reset/confirm",
		body:     req,
		fallback: "Password reset failed",
	}, &msg)
	return msg, err
}

// VerifyEmail confirms an email address with the token from the link
func (c *Client) VerifyEmail(ctx context.Context, token string) (domain.Message, error) {
	var msg domain.Message
	err := c.do(ctx, call{
		op:       "verify email",
		method:   http.MethodPost,
		path:     "/auth/verify-email",
		body:     map[string]string{"token": token},
		fallback: "Email verification failed",
	}, &msg)
	return msg, err
}

// ResendVerification sends a new verification email
func (c *Client) ResendVerification(ctx context.Context, email string) (domain.Message, error) {
	var msg domain.Message
	err := c.do(ctx, call{
		op:       "resend verification",
		method:   http.MethodPost,
		path:     "/auth/verify-email/resend",
		body:     map[string]string{"email": email},
		fallback: "Could not resend verification email",
	}, &msg)
	return msg, err
}

// RefreshToken exchanges a refresh credential for a new access credential
func (c *Client) RefreshToken(ctx context.Context, refresh string) (domain.TokenPair, error) {
	var pair domain.TokenPair
	err := c.do(ctx, call{
		op:       "refresh token",
		method:   http.MethodPost,
		path:     "/auth/token/refresh",
		body:     map[string]string{"refresh": refresh},
		fallback: "Session expired, please sign in again",
	}, &pair)
	if err == nil && pair.RefreshToken == "" {
		pair.RefreshToken = refresh
	}
	return pair, err
}

// Logout blacklists the refresh credential. The backend tolerates a missing
// or invalid credential, so only transport failures are reported.
func (c *Client) Logout(ctx context.Context, token, refresh string) error {
	err := c.do(ctx, call{
		op:       "logout",
		method:   http.MethodPost,
		path:     "/auth/logout",
		token:    token,
		body:     map[string]string{"refresh": refresh},
		fallback: "Logout failed",
	}, nil)

	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		c.logger.Debug("logout rejected by server, ignoring", "status", apiErr.Status)
		return nil
	}
	return err
}
