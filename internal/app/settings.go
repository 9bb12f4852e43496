package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/riordanpawley/vantage/internal/types"
	"github.com/riordanpawley/vantage/internal/ui/overlay"
	"golang.org/x/sync/errgroup"
)

type settingsTab int

const (
	tabProfile settingsTab = iota
	tabAccount
	tabEnterprise
	tabTeam
	tabNotifications
)

var settingsTabs = []string{"Profile", "Account", "Enterprise", "Team", "Notifications"}

// settingsScreen holds the settings tabs. Each tab loads on first visit.
type settingsScreen struct {
	tab    settingsTab
	loaded map[settingsTab]bool

	profile     domain.Profile
	profileForm *overlay.Form // non-nil while editing

	enterprise   *domain.Enterprise
	noEnterprise bool

	members     []domain.TeamMember
	invitations []domain.Invitation
	teamCursor  int // members first, then invitations

	notifications domain.NotificationSettings

	width  int
	height int
}

type settingsLoadedMsg struct {
	tab           settingsTab
	profile       domain.Profile
	enterprise    *domain.Enterprise
	members       []domain.TeamMember
	invitations   []domain.Invitation
	notifications domain.NotificationSettings
	err           error
}

type settingsSavedMsg struct {
	op            string
	profile       *domain.Profile
	enterprise    *domain.Enterprise
	invitation    *domain.Invitation
	notifications *domain.NotificationSettings
	removed       string
	message       domain.Message
	err           error
}

func (s *settingsScreen) resize(width, height int) {
	s.width, s.height = width, height
}

func (m *Model) enterSettings() tea.Cmd {
	m.settings = &settingsScreen{loaded: map[settingsTab]bool{}}
	return m.loadTab(tabProfile)
}

func (m *Model) loadTab(tab settingsTab) tea.Cmd {
	client := m.client
	m.loading("settings", "Loading "+strings.ToLower(settingsTabs[tab])+"...")

	return m.async(func(ctx context.Context, token string) tea.Msg {
		out := settingsLoadedMsg{tab: tab}
		switch tab {
		case tabProfile, tabAccount:
			out.profile, out.err = client.GetProfile(ctx, token)
		case tabEnterprise:
			e, err := client.GetEnterprise(ctx, token)
			switch {
			case errors.Is(err, domain.ErrNotFound):
			case err != nil:
				out.err = err
			default:
				out.enterprise = &e
			}
		case tabTeam:
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				out.members, err = client.ListTeamMembers(gctx, token)
				return err
			})
			g.Go(func() error {
				var err error
				out.invitations, err = client.ListInvitations(gctx, token)
				return err
			})
			out.err = g.Wait()
		case tabNotifications:
			out.notifications, out.err = client.GetNotificationSettings(ctx, token)
		}
		return out
	})
}

func (m *Model) switchTab(tab settingsTab) tea.Cmd {
	s := m.settings
	s.tab = tab
	s.profileForm = nil
	if s.loaded[tab] {
		return nil
	}
	return m.loadTab(tab)
}

func (m *Model) settingsKey(msg tea.KeyMsg) tea.Cmd {
	s := m.settings
	k := msg.String()

	if s.profileForm != nil {
		if k == "esc" {
			s.profileForm = nil
			return nil
		}
		_, cmd := s.profileForm.Update(msg)
		return cmd
	}

	switch k {
	case "q":
		m.shutdown()
		return tea.Quit
	case "esc", "b":
		return m.navigate(types.ScreenBoard)
	case "tab", "right":
		return m.switchTab((s.tab + 1) % settingsTab(len(settingsTabs)))
	case "shift+tab", "left":
		return m.switchTab((s.tab + settingsTab(len(settingsTabs)) - 1) % settingsTab(len(settingsTabs)))
	case "1", "2", "3", "4", "5":
		return m.switchTab(settingsTab(k[0] - '1'))
	case "L":
		return m.confirmLogout()
	}

	switch s.tab {
	case tabProfile:
		if k == "e" && s.loaded[tabProfile] {
			s.profileForm = profileForm(s.profile)
			return s.profileForm.Init()
		}
	case tabAccount:
		switch k {
		case "p":
			return m.overlayStack.Push(passwordChangeForm())
		case "D":
			return m.overlayStack.Push(overlay.NewConfirmDialog(
				"Delete account",
				"Permanently delete your account and all of its data?",
				overlay.ConfirmDeleteAccount, ""))
		}
	case tabEnterprise:
		switch k {
		case "e", "n":
			if s.loaded[tabEnterprise] {
				return m.overlayStack.Push(enterpriseForm(s.enterprise))
			}
		case "D":
			if s.enterprise != nil {
				return m.overlayStack.Push(overlay.NewConfirmDialog(
					"Delete enterprise",
					fmt.Sprintf("Delete the enterprise profile %q?", s.enterprise.Name),
					overlay.ConfirmDeleteEnterprise, s.enterprise.ID))
			}
		}
	case tabTeam:
		n := len(s.members) + len(s.invitations)
		switch k {
		case "j", "down":
			s.teamCursor = min(s.teamCursor+1, max(0, n-1))
		case "k", "up":
			s.teamCursor = max(s.teamCursor-1, 0)
		case "i":
			return m.overlayStack.Push(inviteForm())
		case "x":
			if s.teamCursor < len(s.members) {
				member := s.members[s.teamCursor]
				return m.overlayStack.Push(overlay.NewConfirmDialog(
					"Remove member",
					fmt.Sprintf("Remove %s from the team?", member.Email),
					overlay.ConfirmRemoveMember, member.ID))
			}
		case "R":
			if i := s.teamCursor - len(s.members); i >= 0 && i < len(s.invitations) {
				inv := s.invitations[i]
				return m.overlayStack.Push(overlay.NewConfirmDialog(
					"Revoke invitation",
					fmt.Sprintf("Revoke the invitation sent to %s?", inv.Email),
					overlay.ConfirmRevokeInvitation, inv.ID))
			}
		case "r":
			return m.loadTab(tabTeam)
		}
	case tabNotifications:
		if (k == "e" || k == "enter") && s.loaded[tabNotifications] {
			return m.overlayStack.Push(overlay.NewNotificationsOverlay(s.notifications))
		}
	}
	return nil
}

func profileForm(p domain.Profile) *overlay.Form {
	return overlay.NewForm(formProfile, "Profile", "Save", []overlay.Field{
		{Key: "first_name", Label: "First name", Value: p.FirstName},
		{Key: "last_name", Label: "Last name", Value: p.LastName},
		{Key: "job_title", Label: "Job title", Value: p.JobTitle},
		{Key: "phone", Label: "Phone", Value: p.Phone},
	}, func(v map[string]string) error {
		return domain.Required("first_name", "First name", v["first_name"])
	}).Embedded()
}

func passwordChangeForm() *overlay.Form {
	return overlay.NewForm(formPassword, "Change password", "Change", []overlay.Field{
		{Key: "current", Label: "Current", Secret: true},
		{Key: "password", Label: "New", Secret: true},
		{Key: "confirm_password", Label: "Confirm", Secret: true},
	}, func(v map[string]string) error {
		if err := domain.Required("current", "Current password", v["current"]); err != nil {
			return err
		}
		return domain.ValidatePasswordPair(v["password"], v["confirm_password"])
	})
}

func enterpriseForm(e *domain.Enterprise) *overlay.Form {
	var cur domain.Enterprise
	title := "Create enterprise profile"
	if e != nil {
		cur = *e
		title = "Edit enterprise profile"
	}
	founded := ""
	if cur.FoundedIn > 0 {
		founded = strconv.Itoa(cur.FoundedIn)
	}
	return overlay.NewForm(formEnterprise, title, "Save", []overlay.Field{
		{Key: "name", Label: "Name", Value: cur.Name},
		{Key: "industry", Label: "Industry", Value: cur.Industry},
		{Key: "size", Label: "Size", Value: cur.Size, Placeholder: "1-10, 11-50, 51-200..."},
		{Key: "country", Label: "Country", Value: cur.Country},
		{Key: "website", Label: "Website", Value: cur.Website},
		{Key: "founded_in", Label: "Founded", Value: founded, Placeholder: "YYYY", CharLimit: 4},
	}, func(v map[string]string) error {
		if err := domain.Required("name", "Name", v["name"]); err != nil {
			return err
		}
		_, err := parseYear(v["founded_in"])
		return err
	})
}

func parseYear(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < 1800 || y > 2200 {
		return 0, &domain.ValidationError{Field: "founded_in", Message: "Founded must be a four-digit year"}
	}
	return y, nil
}

func inviteForm() *overlay.Form {
	return overlay.NewForm(formInvite, "Invite a team member", "Send invitation", []overlay.Field{
		{Key: "email", Label: "Email", Placeholder: "colleague@company.com"},
		{Key: "role", Label: "Role", Value: "member"},
	}, func(v map[string]string) error {
		return domain.ValidateEmail(v["email"])
	})
}

// profileUpdate returns the fields that differ from p
func profileUpdate(p domain.Profile, v map[string]string) (domain.ProfileUpdate, bool) {
	var u domain.ProfileUpdate
	changed := false
	set := func(dst **string, old, key string) {
		if nv := v[key]; nv != old {
			*dst = &nv
			changed = true
		}
	}
	set(&u.FirstName, p.FirstName, "first_name")
	set(&u.LastName, p.LastName, "last_name")
	set(&u.JobTitle, p.JobTitle, "job_title")
	set(&u.Phone, p.Phone, "phone")
	return u, changed
}

func (m *Model) submitSettings(msg overlay.FormSubmittedMsg) tea.Cmd {
	s := m.settings
	if s == nil {
		return nil
	}
	client := m.client
	v := msg.Values

	switch msg.ID {
	case formProfile:
		update, changed := profileUpdate(s.profile, v)
		if !changed {
			s.profileForm = nil
			m.notify("profile", types.ToastInfo, "Nothing to save")
			return nil
		}
		m.loading("profile", "Saving profile...")
		return m.async(func(ctx context.Context, token string) tea.Msg {
			p, err := client.UpdateProfile(ctx, token, update)
			return settingsSavedMsg{op: "profile", profile: &p, err: err}
		})

	case formPassword:
		change := domain.PasswordChange{CurrentPassword: v["current"], NewPassword: v["password"]}
		m.loading("password", "Changing password...")
		return m.async(func(ctx context.Context, token string) tea.Msg {
			res, err := client.ChangePassword(ctx, token, change)
			return settingsSavedMsg{op: "password", message: res, err: err}
		})

	case formEnterprise:
		year, _ := parseYear(v["founded_in"])
		e := domain.Enterprise{
			Name:      v["name"],
			Industry:  v["industry"],
			Size:      v["size"],
			Country:   v["country"],
			Website:   v["website"],
			FoundedIn: year,
		}
		exists := s.enterprise != nil
		if exists {
			e.ID = s.enterprise.ID
		}
		m.loading("enterprise", "Saving enterprise profile...")
		return m.async(func(ctx context.Context, token string) tea.Msg {
			var (
				saved domain.Enterprise
				err   error
			)
			if exists {
				saved, err = client.UpdateEnterprise(ctx, token, e)
			} else {
				saved, err = client.CreateEnterprise(ctx, token, e)
			}
			return settingsSavedMsg{op: "enterprise", enterprise: &saved, err: err}
		})

	case formInvite:
		req := domain.InvitationRequest{Email: v["email"], Role: v["role"]}
		m.loading("invite", "Sending invitation...")
		return m.async(func(ctx context.Context, token string) tea.Msg {
			inv, err := client.SendInvitation(ctx, token, req)
			return settingsSavedMsg{op: "invite", invitation: &inv, err: err}
		})
	}
	return nil
}

func (m *Model) saveNotifications(settings domain.NotificationSettings) tea.Cmd {
	if m.settings == nil {
		return nil
	}
	client := m.client
	m.loading("notifications", "Saving notification settings...")
	return m.async(func(ctx context.Context, token string) tea.Msg {
		saved, err := client.UpdateNotificationSettings(ctx, token, settings)
		return settingsSavedMsg{op: "notifications", notifications: &saved, err: err}
	})
}

func (m *Model) deleteAccount() tea.Cmd {
	client := m.client
	m.loading("account", "Deleting account...")
	return m.async(func(ctx context.Context, token string) tea.Msg {
		return settingsSavedMsg{op: "account", err: client.DeleteAccount(ctx, token)}
	})
}

func (m *Model) deleteEnterprise() tea.Cmd {
	client := m.client
	m.loading("enterprise", "Deleting enterprise profile...")
	return m.async(func(ctx context.Context, token string) tea.Msg {
		return settingsSavedMsg{op: "delete-enterprise", err: client.DeleteEnterprise(ctx, token)}
	})
}

func (m *Model) removeMember(id string) tea.Cmd {
	client := m.client
	m.loading("team", "Removing member...")
	return m.async(func(ctx context.Context, token string) tea.Msg {
		return settingsSavedMsg{op: "remove-member", removed: id, err: client.RemoveTeamMember(ctx, token, id)}
	})
}

func (m *Model) revokeInvitation(id string) tea.Cmd {
	client := m.client
	m.loading("team", "Revoking invitation...")
	return m.async(func(ctx context.Context, token string) tea.Msg {
		return settingsSavedMsg{op: "revoke", removed: id, err: client.RevokeInvitation(ctx, token, id)}
	})
}

func (m *Model) handleSettingsResult(msg tea.Msg) tea.Cmd {
	s := m.settings
	if s == nil {
		return nil
	}

	switch msg := msg.(type) {
	case settingsLoadedMsg:
		if msg.err != nil {
			return m.fail("settings", msg.err)
		}
		s.loaded[msg.tab] = true
		switch msg.tab {
		case tabProfile, tabAccount:
			s.profile = msg.profile
			s.loaded[tabProfile], s.loaded[tabAccount] = true, true
			p := msg.profile
			m.profile = &p
		case tabEnterprise:
			s.enterprise = msg.enterprise
			s.noEnterprise = msg.enterprise == nil
		case tabTeam:
			s.members, s.invitations = msg.members, msg.invitations
			s.teamCursor = max(0, min(s.teamCursor, len(s.members)+len(s.invitations)-1))
		case tabNotifications:
			s.notifications = msg.notifications
		}
		m.toasts = m.toasts.Resolve("settings")
		return nil

	case settingsSavedMsg:
		return m.applySaved(msg)
	}
	return nil
}

func (m *Model) applySaved(msg settingsSavedMsg) tea.Cmd {
	s := m.settings
	op := msg.op
	switch op {
	case "delete-enterprise", "enterprise":
		op = "enterprise"
	case "remove-member", "revoke":
		op = "team"
	}
	if msg.err != nil {
		return m.fail(op, msg.err)
	}

	switch msg.op {
	case "profile":
		s.profile = *msg.profile
		s.profileForm = nil
		p := *msg.profile
		m.profile = &p
		m.notify(op, types.ToastSuccess, "Profile saved")
	case "password":
		m.notify(op, types.ToastSuccess, messageOr(msg.message, "Password changed"))
	case "account":
		m.logger.Info("account deleted")
		m.clearSession()
		cmd := m.navigate(types.ScreenLogin)
		m.notify(op, types.ToastInfo, "Your account has been deleted")
		return cmd
	case "enterprise":
		s.enterprise = msg.enterprise
		s.noEnterprise = false
		s.loaded[tabEnterprise] = true
		m.notify(op, types.ToastSuccess, "Enterprise profile saved")
	case "delete-enterprise":
		s.enterprise = nil
		s.noEnterprise = true
		m.notify(op, types.ToastSuccess, "Enterprise profile deleted")
	case "invite":
		s.invitations = append(s.invitations, *msg.invitation)
		m.notify(op, types.ToastSuccess, "Invitation sent to "+msg.invitation.Email)
	case "remove-member":
		s.members = removeByID(s.members, msg.removed, func(t domain.TeamMember) string { return t.ID })
		s.teamCursor = max(0, min(s.teamCursor, len(s.members)+len(s.invitations)-1))
		m.notify(op, types.ToastSuccess, "Member removed")
	case "revoke":
		s.invitations = removeByID(s.invitations, msg.removed, func(i domain.Invitation) string { return i.ID })
		s.teamCursor = max(0, min(s.teamCursor, len(s.members)+len(s.invitations)-1))
		m.notify(op, types.ToastSuccess, "Invitation revoked")
	case "notifications":
		s.notifications = *msg.notifications
		m.notify(op, types.ToastSuccess, "Notification settings saved")
	}
	return nil
}

func removeByID[T any](items []T, id string, key func(T) string) []T {
	out := items[:0:0]
	for _, it := range items {
		if key(it) != id {
			out = append(out, it)
		}
	}
	return out
}

func (m *Model) viewSettings() string {
	s := m.settings
	st := m.styles
	var b strings.Builder

	tabs := make([]string, len(settingsTabs))
	for i, name := range settingsTabs {
		label := fmt.Sprintf("%d %s", i+1, name)
		if settingsTab(i) == s.tab {
			tabs[i] = st.TabActive.Render(label)
		} else {
			tabs[i] = st.Tab.Render(label)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	if !s.loaded[s.tab] {
		b.WriteString(st.Muted.Render(m.spinner.View() + " Loading..."))
		return b.String()
	}

	switch s.tab {
	case tabProfile:
		if s.profileForm != nil {
			b.WriteString(s.profileForm.View())
			b.WriteString("\n\n")
			b.WriteString(st.Muted.Render("ctrl+s save • esc cancel"))
			break
		}
		p := s.profile
		row(&b, st.Label.Render("Name"), p.FullName())
		row(&b, st.Label.Render("Email"), p.Email)
		row(&b, st.Label.Render("Job title"), p.JobTitle)
		row(&b, st.Label.Render("Phone"), p.Phone)
		b.WriteString("\n")
		b.WriteString(st.Muted.Render("e edit"))

	case tabAccount:
		role := "Team member"
		if s.profile.IsOwner {
			role = "Owner"
		}
		row(&b, st.Label.Render("Email"), s.profile.Email)
		row(&b, st.Label.Render("Role"), role)
		b.WriteString("\n")
		b.WriteString(st.Muted.Render("p change password • D delete account • L sign out"))

	case tabEnterprise:
		if s.noEnterprise || s.enterprise == nil {
			b.WriteString("No enterprise profile yet.\n\n")
			b.WriteString(st.Muted.Render("n create"))
			break
		}
		e := s.enterprise
		row(&b, st.Label.Render("Name"), e.Name)
		row(&b, st.Label.Render("Industry"), e.Industry)
		row(&b, st.Label.Render("Size"), e.Size)
		row(&b, st.Label.Render("Country"), e.Country)
		row(&b, st.Label.Render("Website"), e.Website)
		if e.FoundedIn > 0 {
			row(&b, st.Label.Render("Founded"), strconv.Itoa(e.FoundedIn))
		}
		b.WriteString("\n")
		b.WriteString(st.Muted.Render("e edit • D delete"))

	case tabTeam:
		b.WriteString(st.Subtitle.Render(fmt.Sprintf("Members (%d)", len(s.members))))
		b.WriteString("\n")
		for i, mem := range s.members {
			b.WriteString(m.teamLine(i, fmt.Sprintf("%-28s %-24s %s", mem.Name, mem.Email, mem.Role)))
		}
		b.WriteString("\n")
		b.WriteString(st.Subtitle.Render(fmt.Sprintf("Invitations (%d)", len(s.invitations))))
		b.WriteString("\n")
		if len(s.invitations) == 0 {
			b.WriteString(st.Muted.Render("  No pending invitations"))
			b.WriteString("\n")
		}
		for i, inv := range s.invitations {
			b.WriteString(m.teamLine(len(s.members)+i, fmt.Sprintf("%-28s %-10s %-10s expires %s",
				inv.Email, inv.Role, inv.Status, shortDate(inv.ExpiresAt))))
		}
		b.WriteString("\n")
		b.WriteString(st.Muted.Render("i invite • x remove member • R revoke invitation • r refresh"))

	case tabNotifications:
		n := s.notifications
		row(&b, st.Label.Render("Digest"), onOff(n.EmailDigest)+" ("+n.DigestFrequency+")")
		row(&b, st.Label.Render("Assigned"), onOff(n.TaskAssigned))
		row(&b, st.Label.Render("Reminders"), onOff(n.TaskDueReminders))
		row(&b, st.Label.Render("Reports"), onOff(n.AssessmentReady))
		b.WriteString("\n")
		b.WriteString(st.Muted.Render("e edit"))
	}
	return b.String()
}

func (m *Model) teamLine(i int, text string) string {
	if i == m.settings.teamCursor {
		return m.styles.OptionSel.Render("> "+text) + "\n"
	}
	return m.styles.Option.Render("  "+text) + "\n"
}

func row(b *strings.Builder, label, value string) {
	if value == "" {
		value = "-"
	}
	b.WriteString(label + " " + value + "\n")
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
