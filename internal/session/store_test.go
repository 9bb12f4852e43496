package session

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "vantage", "session.json"), slog.Default())
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := newTestStore(t)

	sess, err := store.Load()
	require.NoError(t, err)
	assert.False(t, sess.Authenticated())
	assert.Empty(t, store.AccessToken())
}

func TestStore_SaveLoadClear(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(Session{AccessToken: "acc", RefreshToken: "ref"}))
	assert.Equal(t, "acc", store.AccessToken())

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// A fresh store sees the persisted pair under the fixed keys
	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"accessToken": "acc"`)
	assert.Contains(t, string(data), `"refreshToken": "ref"`)

	other := NewStore(store.Path(), nil)
	sess, err := other.Load()
	require.NoError(t, err)
	assert.Equal(t, Session{AccessToken: "acc", RefreshToken: "ref"}, sess)

	require.NoError(t, other.Clear())
	assert.False(t, other.Current().Authenticated())
	_, err = os.Stat(store.Path())
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// Clearing twice is fine
	require.NoError(t, other.Clear())
}

func TestStore_LoadCorrupt(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o700))
	require.NoError(t, os.WriteFile(store.Path(), []byte("{nope"), 0o600))

	_, err := store.Load()
	var sessErr *domain.SessionError
	require.ErrorAs(t, err, &sessErr)
	assert.Equal(t, "load", sessErr.Op)
}

func TestFromTokens(t *testing.T) {
	sess := FromTokens(domain.TokenPair{AccessToken: "a", RefreshToken: "r"})
	assert.Equal(t, Session{AccessToken: "a", RefreshToken: "r"}, sess)
	assert.True(t, sess.Authenticated())
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": float64(42),
		"email":   "owner@acme.io",
		"exp":     float64(exp.Unix()),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	claims, err := ParseClaims(signed)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "owner@acme.io", claims.Email)
	assert.True(t, claims.ExpiresAt.Equal(exp))
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(exp.Add(time.Second)))
}

func TestParseClaims_Invalid(t *testing.T) {
	_, err := ParseClaims("not-a-jwt")
	assert.Error(t, err)
}
