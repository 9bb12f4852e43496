// Package network tracks whether the diagnostic backend is reachable
package network

import (
	"context"
	"errors"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/vantage/internal/domain"
)

// Pinger checks the backend health endpoint
type Pinger interface {
	Ping(ctx context.Context) error
}

// Sender delivers messages to a running program
type Sender interface {
	Send(msg tea.Msg)
}

// StatusChecker monitors backend connectivity
type StatusChecker struct {
	mu        sync.RWMutex
	isOnline  bool
	lastCheck time.Time
	pinger    Pinger
	timeout   time.Duration
}

// StatusMsg is sent when the network status changes
type StatusMsg struct {
	Online bool
}

// NewStatusChecker creates a checker that pings through pinger
func NewStatusChecker(pinger Pinger) *StatusChecker {
	return &StatusChecker{
		isOnline: true, // Optimistically assume online
		pinger:   pinger,
		timeout:  5 * time.Second,
	}
}

// Check pings the backend. Any HTTP answer, even an error status, counts as
// online; only transport failures count as offline.
func (s *StatusChecker) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.pinger.Ping(ctx)
	online := err == nil
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.Status > 0 {
		online = true
	}

	s.setOnline(online)
	return online
}

// IsOnline returns the cached online status
func (s *StatusChecker) IsOnline() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isOnline
}

// LastCheck returns the time of the last connectivity check
func (s *StatusChecker) LastCheck() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastCheck
}

func (s *StatusChecker) setOnline(online bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isOnline = online
	s.lastCheck = time.Now()
}

// StartMonitoring polls at interval until ctx is done, sending StatusMsg
// only when the status changes
func (s *StatusChecker) StartMonitoring(ctx context.Context, program Sender, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	wasOnline := s.Check(ctx)
	if !wasOnline {
		program.Send(StatusMsg{Online: false})
	}

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			isOnline := s.Check(ctx)
			if ctx.Err() != nil {
				return
			}
			if isOnline != wasOnline {
				program.Send(StatusMsg{Online: isOnline})
				wasOnline = isOnline
			}
		}
	}
}

// CheckCmd returns a tea.Cmd that performs a one-time connectivity check
func (s *StatusChecker) CheckCmd() tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Online: s.Check(context.Background())}
	}
}
