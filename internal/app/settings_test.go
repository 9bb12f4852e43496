package app

import (
	"net/http"
	"testing"

	"github.com/riordanpawley/vantage/internal/api/apitest"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/riordanpawley/vantage/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settingsHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	h := newHarness(t, Route{}, append(opts, signedIn(apitest.AccessToken))...)
	h.press("s")
	require.Equal(t, types.ScreenSettings, h.m.Screen())
	return h
}

func TestSettingsProfileSavesChangedFields(t *testing.T) {
	h := settingsHarness(t)
	require.True(t, h.m.settings.loaded[tabProfile])

	h.press("e", "tab", "tab")
	h.typeText("Founder")
	h.press("ctrl+s")

	reqs := h.requests(http.MethodPatch, "/api/users/me")
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"job_title":"Founder"}`, reqs[0].Body)
	assert.Nil(t, h.m.settings.profileForm)
	assert.Equal(t, "Founder", h.m.settings.profile.JobTitle)
	assert.Contains(t, h.toasts(types.ToastSuccess), "Profile saved")
}

func TestSettingsProfileUnchanged(t *testing.T) {
	h := settingsHarness(t)

	h.press("e", "ctrl+s")

	assert.Empty(t, h.requests(http.MethodPatch, "/api/users/me"))
	assert.Contains(t, h.toasts(types.ToastInfo), "Nothing to save")
}

func TestSettingsPasswordMismatch(t *testing.T) {
	h := settingsHarness(t)

	h.press("2", "p")
	h.typeText("old-secret")
	h.press("tab")
	h.typeText("new-secret-1")
	h.press("tab")
	h.typeText("new-secret-2")
	h.press("ctrl+s")

	assert.Empty(t, h.requests(http.MethodPost, "/api/users/me/password"))
	assert.Len(t, h.toasts(types.ToastWarning), 1)
	assert.False(t, h.m.overlayStack.IsEmpty())
}

func TestSettingsEnterpriseYear(t *testing.T) {
	h := settingsHarness(t)

	h.press("3")
	require.True(t, h.m.settings.noEnterprise)

	h.press("n")
	h.typeText("Acme")
	h.press("tab", "tab", "tab", "tab", "tab")
	h.typeText("19x")
	h.press("ctrl+s")

	assert.Equal(t, []string{"Founded must be a four-digit year"}, h.toasts(types.ToastWarning))
	assert.Empty(t, h.requests(http.MethodPost, "/api/enterprise"))
}

func TestSettingsTeam(t *testing.T) {
	h := settingsHarness(t, seed(func(s *apitest.Server) {
		s.Members = []domain.TeamMember{{ID: "m-1", Email: "sam@example.com", Name: "Sam"}}
	}))

	h.press("4")
	require.Len(t, h.m.settings.members, 1)

	h.press("i")
	h.typeText("new@example.com")
	h.press("ctrl+s")

	require.Len(t, h.requests(http.MethodPost, "/api/team/invitations"), 1)
	require.Len(t, h.m.settings.invitations, 1)
	assert.Equal(t, "new@example.com", h.m.settings.invitations[0].Email)
	assert.Contains(t, h.toasts(types.ToastSuccess), "Invitation sent to new@example.com")

	h.press("j", "R", "y")
	assert.Empty(t, h.m.settings.invitations)
	assert.Empty(t, h.srv.Pending)

	h.press("x", "y")
	assert.Empty(t, h.m.settings.members)
	assert.Len(t, h.requests(http.MethodDelete, "/api/team/members/m-1"), 1)
}

func TestSettingsNotifications(t *testing.T) {
	h := settingsHarness(t)

	h.press("5")
	require.True(t, h.m.settings.notifications.EmailDigest)

	// Toggle the digest off, then save.
	h.press("e", " ", "ctrl+s")

	reqs := h.requests(http.MethodPut, "/api/users/me/notifications")
	require.Len(t, reqs, 1)
	assert.False(t, h.m.settings.notifications.EmailDigest)
	assert.False(t, h.srv.Notifications.EmailDigest)
	assert.Contains(t, h.toasts(types.ToastSuccess), "Notification settings saved")
}

func TestSettingsDeleteAccount(t *testing.T) {
	h := settingsHarness(t)

	h.press("2", "D", "y")

	assert.Equal(t, types.ScreenLogin, h.m.Screen())
	sess, err := h.store.Load()
	require.NoError(t, err)
	assert.Empty(t, sess.AccessToken)
	assert.Contains(t, h.toasts(types.ToastInfo), "Your account has been deleted")
}
