package network

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/vantage/internal/api"
	"github.com/riordanpawley/vantage/internal/api/apitest"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

type fakePinger struct {
	mu   sync.Mutex
	errs []error
}

func (f *fakePinger) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.errs) == 0 {
		return nil
	}
	err := f.errs[0]
	if len(f.errs) > 1 {
		f.errs = f.errs[1:]
	}
	return err
}

type recorder struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recorder) Send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) snapshot() []tea.Msg {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tea.Msg(nil), r.msgs...)
}

var errRefused = &domain.APIError{Op: "ping", Message: "Server unreachable", Err: errors.New("connection refused")}

func TestNewStatusChecker(t *testing.T) {
	checker := NewStatusChecker(&fakePinger{})
	require.NotNil(t, checker)
	assert.True(t, checker.IsOnline(), "should be optimistically online initially")
	assert.True(t, checker.LastCheck().IsZero())
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"healthy", nil, true},
		{"server error still reachable", &domain.APIError{Op: "ping", Status: http.StatusServiceUnavailable}, true},
		{"transport failure", errRefused, false},
		{"context deadline", context.DeadlineExceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewStatusChecker(&fakePinger{errs: []error{tt.err}})
			assert.Equal(t, tt.want, checker.Check(context.Background()))
			assert.Equal(t, tt.want, checker.IsOnline())
			assert.False(t, checker.LastCheck().IsZero())
		})
	}
}

func TestCheck_AgainstBackend(t *testing.T) {
	srv := apitest.NewServer(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := api.NewClient(srv.URL+"/", nil, time.Second, logger)

	checker := NewStatusChecker(client)
	assert.True(t, checker.Check(context.Background()))

	down := NewStatusChecker(api.NewClient("http://127.0.0.1:1", nil, time.Second, logger))
	assert.False(t, down.Check(context.Background()))
}

func TestCheckCmd(t *testing.T) {
	checker := NewStatusChecker(&fakePinger{errs: []error{errRefused}})
	msg := checker.CheckCmd()()
	assert.Equal(t, StatusMsg{Online: false}, msg)
}

func TestStartMonitoring_SendsOnChange(t *testing.T) {
	pinger := &fakePinger{errs: []error{nil, errRefused, errRefused, nil}}
	checker := NewStatusChecker(pinger)
	rec := &recorder{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		checker.StartMonitoring(ctx, rec, 5*time.Millisecond)
	}()

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) >= 2
	}, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	msgs := rec.snapshot()
	assert.Equal(t, StatusMsg{Online: false}, msgs[0])
	assert.Equal(t, StatusMsg{Online: true}, msgs[1])
}

func TestStartMonitoring_StopsOnCancel(t *testing.T) {
	checker := NewStatusChecker(&fakePinger{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		checker.StartMonitoring(ctx, &recorder{}, time.Hour)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("StartMonitoring did not return after cancel")
	}
}
