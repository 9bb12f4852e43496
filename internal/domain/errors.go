package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidMove  = errors.New("invalid move")
	ErrNoSession    = errors.New("not signed in")
)

// APIError is the single error shape returned by every API client call
type APIError struct {
	Op      string // Operation: "login", "get board", etc.
	Status  int    // HTTP status; 0 when the request never got a response
	Message string // Human-readable message from the server or the fallback
	// Discriminators some 403 responses carry under "data"
	IsOwner          bool
	IsTeamMemberOnly bool
	Err              error // Underlying transport/decoding error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Op, e.Status, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed", e.Op)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is maps HTTP statuses onto the package sentinels so callers can branch
// with errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// UserMessage returns the text shown in notifications
func (e *APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error()
}

// ValidationError is a client-side input error that never reaches the server
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SessionError represents a failure reading or writing the credential store
type SessionError struct {
	Op   string
	Path string
	Err  error
}

func (e *SessionError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("session %s [%s]: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("session %s: %v", e.Op, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// UserMessage extracts a notification-friendly message from any error
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Message
	}
	return err.Error()
}
