package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "owner@acme.io", false},
		{"valid with plus", "owner+ops@acme.co.uk", false},
		{"missing at", "not-an-email", true},
		{"empty", "", true},
		{"no tld", "owner@acme", true},
		{"display name", "Owner <owner@acme.io>", true},
		{"trailing dot", "owner@acme.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var valErr *ValidationError
			require.True(t, errors.As(err, &valErr))
			assert.Equal(t, "email", valErr.Field)
		})
	}
}

func TestValidatePasswordPair(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		confirm   string
		wantField string
		wantMsg   string
	}{
		{"ok", "longenough", "longenough", "", ""},
		{"seven chars", "short12", "short12", "password", "Password must be at least 8 characters"},
		{"short beats mismatch", "short", "other", "password", "Password must be at least 8 characters"},
		{"mismatch", "longenough", "longenougH", "confirm_password", "Passwords do not match"},
		{"empty", "", "", "password", "Password is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePasswordPair(tt.password, tt.confirm)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.wantField, valErr.Field)
			assert.Equal(t, tt.wantMsg, valErr.Message)
		})
	}
}

func TestRequired(t *testing.T) {
	assert.NoError(t, Required("title", "Title", "Do the thing"))
	err := Required("title", "Title", "   ")
	require.Error(t, err)
	assert.Equal(t, "Title is required", UserMessage(err))
}
