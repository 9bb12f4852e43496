// Package session persists the access/refresh credential pair between runs.
package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/riordanpawley/vantage/internal/domain"
)

// Session is the credential pair for the signed-in user
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Authenticated reports whether an access credential is present
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// FromTokens builds a Session from an API token pair
func FromTokens(pair domain.TokenPair) Session {
	return Session{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
}

// Store is the explicit credential store handed to every screen
type Store struct {
	mu      sync.RWMutex
	path    string
	current Session
	logger  *slog.Logger
}

// NewStore creates a store backed by the JSON file at path
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Path returns the backing file
func (s *Store) Path() string {
	return s.path
}

// Load reads the session file. A missing file is an empty session.
func (s *Store) Load() (Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.set(Session{})
		return Session{}, nil
	}
	if err != nil {
		return Session{}, &domain.SessionError{Op: "load", Path: s.path, Err: err}
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, &domain.SessionError{Op: "load", Path: s.path, Err: err}
	}

	s.set(sess)
	s.logger.Debug("session loaded", "authenticated", sess.Authenticated())
	return sess, nil
}

// Save writes the session atomically with owner-only permissions
func (s *Store) Save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return &domain.SessionError{Op: "save", Path: s.path, Err: err}
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return &domain.SessionError{Op: "save", Path: s.path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return &domain.SessionError{Op: "save", Path: s.path, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &domain.SessionError{Op: "save", Path: s.path, Err: err}
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return &domain.SessionError{Op: "save", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &domain.SessionError{Op: "save", Path: s.path, Err: err}
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return &domain.SessionError{Op: "save", Path: s.path, Err: err}
	}

	s.set(sess)
	s.logger.Info("session saved")
	return nil
}

// Clear removes the session file and forgets the in-memory credentials
func (s *Store) Clear() error {
	s.set(Session{})
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &domain.SessionError{Op: "clear", Path: s.path, Err: err}
	}
	s.logger.Info("session cleared")
	return nil
}

// Current returns the last loaded or saved session
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// AccessToken returns the current access credential, empty when signed out
func (s *Store) AccessToken() string {
	return s.Current().AccessToken
}

func (s *Store) set(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = sess
}
