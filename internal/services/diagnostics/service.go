// Package diagnostics checks that the client can reach the backend and use
// its stored session
package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/riordanpawley/vantage/internal/session"
)

// HealthStatus represents the overall health state
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthDegraded HealthStatus = "degraded"
	HealthCritical HealthStatus = "critical"
)

// NetworkInfo represents backend reachability
type NetworkInfo struct {
	BaseURL     string
	IsOnline    bool
	Latency     time.Duration
	HealthState HealthStatus
}

// SessionInfo describes the stored credentials
type SessionInfo struct {
	Path          string
	Authenticated bool
	Email         string
	ExpiresAt     time.Time
	Expired       bool
	// Accepted is set when the backend answered a profile request with the
	// stored token
	Accepted bool
}

// FileInfo describes a file the client writes
type FileInfo struct {
	Label  string
	Path   string
	Exists bool
	Mode   os.FileMode
}

// SystemInfo represents runtime information
type SystemInfo struct {
	GoVersion    string
	OS           string
	Arch         string
	NumGoroutine int
	MemoryUsage  uint64 // Bytes
}

// SystemDiagnostics contains all diagnostic information
type SystemDiagnostics struct {
	Timestamp    time.Time
	OverallState HealthStatus
	Network      NetworkInfo
	Session      SessionInfo
	Files        []FileInfo
	System       SystemInfo
	Warnings     []string
	Errors       []string
}

// Pinger checks the backend health endpoint
type Pinger interface {
	Ping(ctx context.Context) error
	BaseURL() string
}

// ProfileFetcher checks that a token is accepted
type ProfileFetcher interface {
	GetProfile(ctx context.Context, token string) (domain.Profile, error)
}

// SessionSource exposes the stored session
type SessionSource interface {
	Current() session.Session
	Path() string
}

// Service provides client diagnostics
type Service struct {
	mu sync.RWMutex

	pinger   Pinger
	profiles ProfileFetcher
	sessions SessionSource
	logFile  string
	now      func() time.Time

	lastDiagnostics *SystemDiagnostics
}

// NewService creates a new diagnostics service
func NewService(pinger Pinger, profiles ProfileFetcher, sessions SessionSource, logFile string) *Service {
	return &Service{
		pinger:   pinger,
		profiles: profiles,
		sessions: sessions,
		logFile:  logFile,
		now:      time.Now,
	}
}

// CollectDiagnostics gathers all diagnostic information
func (s *Service) CollectDiagnostics(ctx context.Context) *SystemDiagnostics {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var warnings, errs []string

	network := s.checkNetwork(ctx)
	if !network.IsOnline {
		errs = append(errs, "Cannot reach "+network.BaseURL)
	}

	sess := s.checkSession(ctx, network.IsOnline, now)
	switch {
	case !sess.Authenticated:
		warnings = append(warnings, "Not signed in")
	case sess.Expired:
		warnings = append(warnings, "Access token has expired; sign in again")
	case network.IsOnline && !sess.Accepted:
		errs = append(errs, "The server rejected the stored session; sign in again")
	}

	files := []FileInfo{
		fileInfo("Session", s.sessions.Path()),
		fileInfo("Log", s.logFile),
	}
	if sf := files[0]; sf.Exists && sf.Mode.Perm()&0o077 != 0 {
		warnings = append(warnings, fmt.Sprintf("Session file %s is readable by other users", sf.Path))
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	system := SystemInfo{
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Arch:         runtime.GOARCH,
		NumGoroutine: runtime.NumGoroutine(),
		MemoryUsage:  memStats.Alloc,
	}

	overallState := HealthHealthy
	if len(errs) > 0 {
		overallState = HealthCritical
	} else if len(warnings) > 0 {
		overallState = HealthDegraded
	}

	diag := &SystemDiagnostics{
		Timestamp:    now,
		OverallState: overallState,
		Network:      network,
		Session:      sess,
		Files:        files,
		System:       system,
		Warnings:     warnings,
		Errors:       errs,
	}
	s.lastDiagnostics = diag
	return diag
}

func (s *Service) checkNetwork(ctx context.Context) NetworkInfo {
	info := NetworkInfo{BaseURL: s.pinger.BaseURL()}

	start := time.Now()
	err := s.pinger.Ping(ctx)
	info.Latency = time.Since(start)

	// Any HTTP answer proves the server is reachable
	var apiErr *domain.APIError
	info.IsOnline = err == nil || errors.As(err, &apiErr) && apiErr.Status > 0
	switch {
	case !info.IsOnline:
		info.HealthState = HealthCritical
	case err != nil || info.Latency > 2*time.Second:
		info.HealthState = HealthDegraded
	default:
		info.HealthState = HealthHealthy
	}
	return info
}

func (s *Service) checkSession(ctx context.Context, online bool, now time.Time) SessionInfo {
	cur := s.sessions.Current()
	info := SessionInfo{Path: s.sessions.Path(), Authenticated: cur.Authenticated()}
	if !info.Authenticated {
		return info
	}

	if claims, err := session.ParseClaims(cur.AccessToken); err == nil {
		info.Email = claims.Email
		info.ExpiresAt = claims.ExpiresAt
		info.Expired = claims.Expired(now)
	}
	if !online || info.Expired {
		return info
	}

	profile, err := s.profiles.GetProfile(ctx, cur.AccessToken)
	if err == nil {
		info.Accepted = true
		info.Email = profile.Email
	}
	return info
}

func fileInfo(label, path string) FileInfo {
	f := FileInfo{Label: label, Path: path}
	if path == "" {
		return f
	}
	if st, err := os.Stat(path); err == nil {
		f.Exists = true
		f.Mode = st.Mode()
	}
	return f
}

// FormatDiagnostics returns a human-readable diagnostics report
func (s *Service) FormatDiagnostics(diag *SystemDiagnostics) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Status: %s\n", strings.ToUpper(string(diag.OverallState))))
	b.WriteString(fmt.Sprintf("Checked: %s\n\n", diag.Timestamp.Format("15:04:05")))

	if len(diag.Errors) > 0 {
		b.WriteString("ERRORS:\n")
		for _, err := range diag.Errors {
			b.WriteString(fmt.Sprintf("  ✗ %s\n", err))
		}
		b.WriteString("\n")
	}

	if len(diag.Warnings) > 0 {
		b.WriteString("WARNINGS:\n")
		for _, warn := range diag.Warnings {
			b.WriteString(fmt.Sprintf("  ⚠ %s\n", warn))
		}
		b.WriteString("\n")
	}

	b.WriteString("BACKEND:\n")
	b.WriteString(fmt.Sprintf("  URL: %s\n", diag.Network.BaseURL))
	if diag.Network.IsOnline {
		b.WriteString(fmt.Sprintf("  ✓ Online (%s)\n\n", formatDuration(diag.Network.Latency)))
	} else {
		b.WriteString("  ✗ Offline\n\n")
	}

	b.WriteString("SESSION:\n")
	sess := diag.Session
	switch {
	case !sess.Authenticated:
		b.WriteString("  (not signed in)\n")
	default:
		if sess.Email != "" {
			b.WriteString(fmt.Sprintf("  Account: %s\n", sess.Email))
		}
		if !sess.ExpiresAt.IsZero() {
			b.WriteString(fmt.Sprintf("  Expires: %s\n", sess.ExpiresAt.Format(time.RFC1123)))
		}
		if sess.Accepted {
			b.WriteString("  ✓ Accepted by the server\n")
		}
	}
	b.WriteString("\n")

	b.WriteString("FILES:\n")
	for _, f := range diag.Files {
		state := "missing"
		if f.Exists {
			state = f.Mode.Perm().String()
		}
		b.WriteString(fmt.Sprintf("  %s: %s (%s)\n", f.Label, f.Path, state))
	}
	b.WriteString("\n")

	b.WriteString("SYSTEM:\n")
	b.WriteString(fmt.Sprintf("  Go: %s\n", diag.System.GoVersion))
	b.WriteString(fmt.Sprintf("  OS: %s/%s\n", diag.System.OS, diag.System.Arch))
	b.WriteString(fmt.Sprintf("  Goroutines: %d\n", diag.System.NumGoroutine))
	b.WriteString(fmt.Sprintf("  Memory: %s\n", formatBytes(diag.System.MemoryUsage)))

	return b.String()
}

// GetCachedDiagnostics returns the last collected diagnostics without refresh
func (s *Service) GetCachedDiagnostics() *SystemDiagnostics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastDiagnostics
}

// formatDuration formats a latency in a human-readable format
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// formatBytes formats bytes in a human-readable format
func formatBytes(bytes uint64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
