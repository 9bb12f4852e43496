package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/vantage/internal/api/apitest"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/riordanpawley/vantage/internal/invite"
	"github.com/riordanpawley/vantage/internal/types"
	"github.com/riordanpawley/vantage/internal/ui/overlay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartupScreen(t *testing.T) {
	tests := []struct {
		name   string
		route  Route
		signed bool
		want   types.Screen
	}{
		{"signed out", Route{}, false, types.ScreenLogin},
		{"signed in", Route{}, true, types.ScreenBoard},
		{"register link", Route{Screen: types.ScreenRegister}, false, types.ScreenRegister},
		{"invite link while signed in", Route{Screen: types.ScreenInvite, Token: "nope"}, true, types.ScreenInvite},
		{"private screen while signed out", Route{Screen: types.ScreenSettings}, false, types.ScreenLogin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []harnessOption
			if tt.signed {
				opts = append(opts, signedIn(apitest.AccessToken))
			}
			h := newHarness(t, tt.route, opts...)
			assert.Equal(t, tt.want, h.m.Screen())
		})
	}
}

func TestLogin(t *testing.T) {
	t.Run("success stores tokens and opens the board", func(t *testing.T) {
		h := newHarness(t, Route{})
		h.srv.SeedBoard(task("t-1", "Write plan", domain.ColumnTodo))

		h.typeText(apitest.Email)
		h.press("enter")
		h.typeText(apitest.Password)
		h.press("enter")

		assert.Equal(t, types.ScreenBoard, h.m.Screen())
		assert.Equal(t, apitest.AccessToken, h.store.AccessToken())
		require.NotNil(t, h.m.profile)
		assert.Equal(t, apitest.Email, h.m.profile.Email)
		assert.Equal(t, 1, h.m.board.board.Total())
		assert.Contains(t, h.toasts(types.ToastSuccess), "Welcome back")
	})

	t.Run("wrong password", func(t *testing.T) {
		h := newHarness(t, Route{})

		h.typeText(apitest.Email)
		h.press("enter")
		h.typeText("wrong-password")
		h.press("enter")

		assert.Equal(t, types.ScreenLogin, h.m.Screen())
		assert.False(t, h.store.Current().Authenticated())
		assert.Equal(t, []string{"Invalid email or password"}, h.toasts(types.ToastError))
		assert.Empty(t, h.m.auth.form.Values()["password"], "password is cleared")
		assert.Equal(t, apitest.Email, h.m.auth.form.Values()["email"])
	})

	t.Run("malformed email never reaches the server", func(t *testing.T) {
		h := newHarness(t, Route{})

		h.typeText("owner@acme")
		h.press("enter")
		h.typeText(apitest.Password)
		h.press("enter")

		assert.Empty(t, h.requests(http.MethodPost, "/api/auth/login"))
		assert.Equal(t, []string{"Please enter a valid email address"}, h.toasts(types.ToastWarning))
	})
}

func TestRegisterReturnsToLogin(t *testing.T) {
	h := newHarness(t, Route{})
	h.press("ctrl+r")
	require.Equal(t, types.ScreenRegister, h.m.Screen())

	for _, v := range []string{"Nina", "New", "nina@acme.io", "longenough", "longenough"} {
		h.typeText(v)
		h.press("enter")
	}

	assert.Len(t, h.requests(http.MethodPost, "/api/auth/register"), 1)
	assert.Equal(t, types.ScreenLogin, h.m.Screen())
	assert.Equal(t, "nina@acme.io", h.m.auth.form.Values()["email"])
}

func TestPasswordResetConfirm(t *testing.T) {
	h := newHarness(t, Route{Screen: types.ScreenPasswordReset, UID: "u-1", Token: "reset-tok"})
	require.Equal(t, formResetConfirm, h.m.auth.form.ID())

	h.typeText("brand-new-pass")
	h.press("enter")
	h.typeText("brand-new-pass")
	h.press("enter")

	reqs := h.requests(http.MethodPost, "/api/auth/password-reset/confirm")
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Body, `"uid":"u-1"`)
	assert.Equal(t, types.ScreenLogin, h.m.Screen())
}

func TestVerifyEmail(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		h := newHarness(t, Route{Screen: types.ScreenVerify, Token: "good"})
		assert.Equal(t, verifyDone, h.m.auth.verify)
		h.press("enter")
		assert.Equal(t, types.ScreenLogin, h.m.Screen())
	})

	t.Run("expired token offers a resend", func(t *testing.T) {
		h := newHarness(t, Route{Screen: types.ScreenVerify, Token: "expired"})
		assert.Equal(t, verifyFailed, h.m.auth.verify)
		require.NotNil(t, h.m.auth.form)

		h.typeText(apitest.Email)
		h.press("enter")
		assert.Len(t, h.requests(http.MethodPost, "/api/auth/verify-email/resend"), 1)
		assert.Contains(t, h.toasts(types.ToastSuccess), "Verification email sent")
	})
}

func TestExpiredSessionReturnsToLogin(t *testing.T) {
	h := newHarness(t, Route{}, signedIn("stale-token"))

	assert.Equal(t, types.ScreenLogin, h.m.Screen())
	assert.False(t, h.store.Current().Authenticated())
	assert.Contains(t, h.toasts(types.ToastError), "Your session has expired. Please sign in again.")
}

func TestTeamMemberOnlyGoesToPortal(t *testing.T) {
	h := newHarness(t, Route{}, seed(func(s *apitest.Server) {
		s.Fail(http.MethodGet, "/api/action-items/board", http.StatusForbidden,
			`{"message":"Team members use the team portal","data":{"is_team_member_only":true}}`)
	}), signedIn(apitest.AccessToken))

	assert.Equal(t, types.ScreenPortal, h.m.Screen())
	assert.True(t, h.m.portal.loaded)
	assert.Contains(t, h.toasts(types.ToastWarning), "Team members use the team portal")
}

func TestStaleResultsAreDropped(t *testing.T) {
	h := newHarness(t, Route{}, signedIn(apitest.AccessToken))
	before := len(h.m.toasts)

	h.send(screenMsg{gen: h.m.gen - 1, msg: boardLoadedMsg{err: errors.New("late failure")}})

	assert.Len(t, h.m.toasts, before)
	assert.Equal(t, types.ScreenBoard, h.m.Screen())
}

func TestLogout(t *testing.T) {
	h := newHarness(t, Route{}, signedIn(apitest.AccessToken))

	h.press("L")
	_, ok := h.m.overlayStack.Current().(*overlay.ConfirmDialog)
	require.True(t, ok)
	h.press("y")

	assert.Equal(t, types.ScreenLogin, h.m.Screen())
	assert.False(t, h.store.Current().Authenticated())
	assert.Len(t, h.requests(http.MethodPost, "/api/auth/logout"), 1)
}

func TestInviteAcceptance(t *testing.T) {
	acme := domain.InvitationInfo{EnterpriseName: "Acme", InviterName: "Olivia Owner", Email: "mate@acme.io"}
	withInvite := seed(func(s *apitest.Server) {
		s.Lock()
		s.Invitations["inv-1"] = acme
		s.Unlock()
	})

	t.Run("accept and redirect to the portal", func(t *testing.T) {
		h := newHarness(t, Route{Screen: types.ScreenInvite, Token: "inv-1"}, withInvite)
		require.Equal(t, invite.StatusValid, h.m.invite.state.Status)
		assert.Contains(t, ansi.Strip(h.m.View()), "Olivia Owner invited mate@acme.io to join")

		for _, v := range []string{"Mate", "Member", "longenough", "longenough"} {
			h.typeText(v)
			h.press("enter")
		}

		assert.Equal(t, apitest.AccessToken, h.store.AccessToken())
		assert.Equal(t, types.ScreenPortal, h.m.Screen())
		assert.Contains(t, h.toasts(types.ToastSuccess), "Welcome to Acme!")
	})

	t.Run("mismatched passwords are rejected locally", func(t *testing.T) {
		h := newHarness(t, Route{Screen: types.ScreenInvite, Token: "inv-1"}, withInvite)

		for _, v := range []string{"Mate", "Member", "longenough", "different1"} {
			h.typeText(v)
			h.press("enter")
		}

		assert.Empty(t, h.requests(http.MethodPost, "/api/team/invitations/accept"))
		assert.Equal(t, invite.StatusValid, h.m.invite.state.Status)
		assert.Contains(t, h.toasts(types.ToastWarning), "Passwords do not match")
	})

	t.Run("unknown token", func(t *testing.T) {
		h := newHarness(t, Route{Screen: types.ScreenInvite, Token: "nope"})
		assert.Equal(t, invite.StatusInvalid, h.m.invite.state.Status)
		assert.Equal(t, "Invitation not found or expired", h.m.invite.state.Error)

		h.press("enter")
		assert.Equal(t, types.ScreenLogin, h.m.Screen())
	})
}

func TestViewFitsTerminal(t *testing.T) {
	h := newHarness(t, Route{}, signedIn(apitest.AccessToken))
	var tasks []domain.Task
	for i := range 15 {
		tasks = append(tasks, task(fmt.Sprintf("t-%d", i), "Write plan", domain.ColumnTodo))
	}
	h.srv.SeedBoard(tasks...)
	h.press("r")
	h.m.notify("", types.ToastInfo, "hello")
	h.m.notify("", types.ToastWarning, "careful")

	for _, height := range []int{40, 24, 12} {
		h.send(tea.WindowSizeMsg{Width: 120, Height: height})
		lines := strings.Split(h.m.View(), "\n")
		assert.LessOrEqual(t, len(lines), height, "height %d", height)
		assert.Contains(t, ansi.Strip(h.m.View()), "careful", "height %d", height)
	}

	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	h.press("?")
	require.False(t, h.m.overlayStack.IsEmpty())
	lines := strings.Split(h.m.View(), "\n")
	assert.LessOrEqual(t, len(lines), 40)
	assert.Contains(t, ansi.Strip(h.m.View()), "Navigation")
}
