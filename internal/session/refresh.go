package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riordanpawley/vantage/internal/domain"
)

// Refresher exchanges a refresh credential for a new pair
type Refresher interface {
	RefreshToken(ctx context.Context, refresh string) (domain.TokenPair, error)
}

// RefreshExpired renews the stored pair when the access token's expiry has
// passed at now. Tokens without a readable expiry are left alone. A refresh
// credential the server rejects clears the session.
func (s *Store) RefreshExpired(ctx context.Context, r Refresher, now time.Time) (bool, error) {
	cur := s.Current()
	if !cur.Authenticated() || cur.RefreshToken == "" {
		return false, nil
	}
	claims, err := ParseClaims(cur.AccessToken)
	if err != nil || !claims.Expired(now) {
		return false, nil
	}

	pair, err := r.RefreshToken(ctx, cur.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			s.logger.Info("refresh token rejected, clearing session")
			if cerr := s.Clear(); cerr != nil {
				return false, cerr
			}
		}
		return false, fmt.Errorf("refresh session: %w", err)
	}

	// servers that rotate only the access token keep the old refresh credential
	next := FromTokens(pair)
	if next.RefreshToken == "" {
		next.RefreshToken = cur.RefreshToken
	}
	if err := s.Save(next); err != nil {
		return false, err
	}
	s.logger.Info("access token refreshed", "expired_at", claims.ExpiresAt)
	return true, nil
}
