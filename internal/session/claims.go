package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims is the subset of access-token claims the client displays.
// Signatures are verified by the backend; the client only reads.
type Claims struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// Expired reports whether the token expiry has passed at now
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseClaims decodes the access token payload without verifying it
func ParseClaims(token string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("parse access token: %w", err)
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("parse access token: unexpected claims type")
	}

	var c Claims
	switch uid := mc["user_id"].(type) {
	case string:
		c.UserID = uid
	case float64:
		c.UserID = fmt.Sprintf("%.0f", uid)
	}
	if c.UserID == "" {
		c.UserID, _ = mc["sub"].(string)
	}
	c.Email, _ = mc["email"].(string)
	if exp, ok := mc["exp"].(float64); ok {
		c.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return c, nil
}
