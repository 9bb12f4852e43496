package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/vantage/internal/api"
	"github.com/riordanpawley/vantage/internal/api/apitest"
	"github.com/riordanpawley/vantage/internal/config"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/riordanpawley/vantage/internal/session"
	"github.com/riordanpawley/vantage/internal/types"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// harness drives a Model the way the bubbletea runtime would, but
// synchronously: commands run inline and their messages are fed back until
// nothing is left. Timer-driven messages (cursor blink, spinner, toast
// expiry) are dropped.
type harness struct {
	t     *testing.T
	srv   *apitest.Server
	store *session.Store
	m     Model
	quit  bool
}

type fakeAttacher struct {
	dir string
}

func (f fakeAttacher) Inspect(_ context.Context, path string) (domain.Attachment, error) {
	full := filepath.Join(f.dir, path)
	info, err := os.Stat(full)
	if err != nil {
		return domain.Attachment{}, err
	}
	return domain.Attachment{Name: filepath.Base(full), Path: full, MimeType: "application/pdf", Size: info.Size()}, nil
}

func (f fakeAttacher) FromClipboard(context.Context, string) (domain.Attachment, error) {
	return domain.Attachment{}, fmt.Errorf("clipboard is empty")
}

type harnessOption func(*harness, *config.Config)

func signedIn(token string) harnessOption {
	return func(h *harness, _ *config.Config) {
		require.NoError(h.t, h.store.Save(session.Session{AccessToken: token, RefreshToken: apitest.RefreshToken}))
	}
}

// seed prepares the fake backend before the first screen loads
func seed(fn func(s *apitest.Server)) harnessOption {
	return func(h *harness, _ *config.Config) {
		fn(h.srv)
	}
}

func newHarness(t *testing.T, route Route, opts ...harnessOption) *harness {
	t.Helper()

	srv := apitest.NewServer(t)
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.API.BaseURL = srv.URL
	cfg.API.TimeoutMs = 5000
	cfg.Invite.RedirectDelayMs = 1
	cfg.Session.Path = filepath.Join(dir, "session.json")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := &harness{
		t:     t,
		srv:   srv,
		store: session.NewStore(cfg.Session.Path, logger),
	}
	for _, opt := range opts {
		opt(h, cfg)
	}

	h.m = New(Deps{
		Config:   cfg,
		Client:   api.NewClient(srv.URL, nil, cfg.API.Timeout(), logger),
		Store:    h.store,
		Attacher: fakeAttacher{dir: dir},
		Logger:   logger,
		Route:    route,
		Now:      func() time.Time { return testNow },
	})
	t.Cleanup(func() { h.m.shutdown() })

	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	h.run(h.m.start)
	return h
}

// writeFile creates a file the fake attacher can find
func (h *harness) writeFile(name, content string) {
	h.t.Helper()
	dir := h.m.attacher.(fakeAttacher).dir
	require.NoError(h.t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func dropped(msg tea.Msg) bool {
	name := fmt.Sprintf("%T", msg)
	for _, prefix := range []string{"cursor.", "textinput.", "textarea.", "spinner."} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	_, tick := msg.(toastTickMsg)
	return tick
}

// run executes cmd and everything it leads to
func (h *harness) run(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(h.t, steps, 500, "command loop did not settle")

		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		switch msg := msg.(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case tea.QuitMsg:
			h.quit = true
		default:
			if dropped(msg) {
				continue
			}
			queue = append(queue, h.update(msg))
		}
	}
}

func (h *harness) update(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

// send delivers msg and runs the resulting commands
func (h *harness) send(msg tea.Msg) {
	h.run(h.update(msg))
}

// press sends keys one at a time
func (h *harness) press(keys ...string) {
	for _, k := range keys {
		h.send(keyMsg(k))
	}
}

// typeText types into the focused input. The blink commands typing returns
// are discarded.
func (h *harness) typeText(s string) {
	for _, r := range s {
		h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func keyMsg(k string) tea.KeyMsg {
	special := map[string]tea.KeyType{
		"enter":     tea.KeyEnter,
		"esc":       tea.KeyEsc,
		"tab":       tea.KeyTab,
		"shift+tab": tea.KeyShiftTab,
		"up":        tea.KeyUp,
		"down":      tea.KeyDown,
		"left":      tea.KeyLeft,
		"right":     tea.KeyRight,
		" ":         tea.KeySpace,
		"ctrl+c":    tea.KeyCtrlC,
		"ctrl+d":    tea.KeyCtrlD,
		"ctrl+e":    tea.KeyCtrlE,
		"ctrl+f":    tea.KeyCtrlF,
		"ctrl+r":    tea.KeyCtrlR,
		"ctrl+s":    tea.KeyCtrlS,
		"ctrl+v":    tea.KeyCtrlV,
	}
	if t, ok := special[k]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// toasts returns the messages of visible toasts at level
func (h *harness) toasts(level types.ToastLevel) []string {
	var out []string
	for _, t := range h.m.toasts {
		if t.Level == level {
			out = append(out, t.Message)
		}
	}
	return out
}

func (h *harness) requests(method, path string) []apitest.Request {
	var out []apitest.Request
	for _, r := range h.srv.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func task(id, title string, col domain.Column) domain.Task {
	return domain.Task{ID: id, Title: title, Column: col, Priority: domain.PriorityMedium}
}
