package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/riordanpawley/vantage/internal/invite"
	"github.com/riordanpawley/vantage/internal/types"
	"github.com/riordanpawley/vantage/internal/ui/overlay"
)

// inviteScreen accepts a team invitation
type inviteScreen struct {
	state invite.State
	form  *overlay.Form
}

// portalScreen is the landing page for team members
type portalScreen struct {
	portal domain.TeamPortal
	loaded bool
}

type inviteActionMsg struct {
	action invite.Action
}

type redirectMsg struct{}

type portalLoadedMsg struct {
	portal domain.TeamPortal
	err    error
}

func acceptForm() *overlay.Form {
	return overlay.NewForm(formAcceptInvite, "Create your account", "Join team", []overlay.Field{
		{Key: "first_name", Label: "First name"},
		{Key: "last_name", Label: "Last name"},
		{Key: "password", Label: "Password", Secret: true},
		{Key: "confirm_password", Label: "Confirm", Secret: true},
	}, nil).Embedded()
}

func (m *Model) enterInvite(token string) tea.Cmd {
	i := &inviteScreen{state: invite.New(token), form: acceptForm()}
	m.invite = i
	if i.state.Status != invite.StatusValidating {
		return nil
	}

	svc := m.invites
	tok := i.state.Token
	return tea.Batch(i.form.Init(), m.async(func(ctx context.Context, _ string) tea.Msg {
		return inviteActionMsg{action: svc.Validate(ctx, tok)}
	}))
}

// dispatchInvite feeds an action to the flow and carries out its effect
func (m *Model) dispatchInvite(action invite.Action) tea.Cmd {
	i := m.invite
	next, eff := invite.Reduce(i.state, action)
	i.state = next

	var cmds []tea.Cmd
	if eff.Accept != nil {
		m.loading("invite", "Creating your account...")
		svc := m.invites
		acceptance := *eff.Accept
		cmds = append(cmds, m.async(func(ctx context.Context, _ string) tea.Msg {
			return inviteActionMsg{action: svc.Accept(ctx, acceptance)}
		}))
	}
	if eff.Err != nil {
		i.form.ResetSecrets()
		var valErr *domain.ValidationError
		if errors.As(eff.Err, &valErr) {
			m.notify("invite", types.ToastWarning, valErr.Message)
		} else {
			cmds = append(cmds, m.fail("invite", eff.Err))
		}
	}
	if eff.Success != "" {
		m.notify("invite", types.ToastSuccess, eff.Success)
	}
	if eff.Redirect {
		cmds = append(cmds, m.after(m.cfg.Invite.RedirectDelay(), redirectMsg{}))
	}
	return tea.Batch(cmds...)
}

func (m *Model) submitInvite(values map[string]string) tea.Cmd {
	if m.invite == nil {
		return nil
	}
	return m.dispatchInvite(invite.Submit{
		FirstName:       values["first_name"],
		LastName:        values["last_name"],
		Password:        values["password"],
		ConfirmPassword: values["confirm_password"],
	})
}

func (m *Model) inviteKey(msg tea.KeyMsg) tea.Cmd {
	i := m.invite
	switch i.state.Status {
	case invite.StatusValid, invite.StatusError:
		_, cmd := i.form.Update(msg)
		return cmd
	case invite.StatusInvalid:
		switch msg.String() {
		case "enter", "esc":
			return m.navigate(types.ScreenLogin)
		case "q":
			m.shutdown()
			return tea.Quit
		}
	}
	return nil
}

func (m *Model) enterPortal() tea.Cmd {
	m.portal = &portalScreen{}
	return m.loadPortal()
}

func (m *Model) loadPortal() tea.Cmd {
	m.loading("portal", "Loading your team...")
	client := m.client
	return m.async(func(ctx context.Context, token string) tea.Msg {
		p, err := client.GetTeamPortal(ctx, token)
		return portalLoadedMsg{portal: p, err: err}
	})
}

func (m *Model) portalKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "r":
		return m.loadPortal()
	case "s":
		return m.navigate(types.ScreenSettings)
	case "L":
		return m.confirmLogout()
	case "q":
		m.shutdown()
		return tea.Quit
	}
	return nil
}

func (m *Model) handleInviteResult(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case inviteActionMsg:
		if m.invite == nil {
			return nil
		}
		if _, ok := msg.action.(invite.Validated); ok {
			m.toasts = m.toasts.Resolve("invite")
		}
		return m.dispatchInvite(msg.action)

	case redirectMsg:
		return m.navigate(types.ScreenPortal)

	case portalLoadedMsg:
		if m.portal == nil {
			return nil
		}
		if msg.err != nil {
			return m.fail("portal", msg.err)
		}
		m.portal.portal = msg.portal
		m.portal.loaded = true
		m.toasts = m.toasts.Resolve("portal")
		return nil
	}
	return nil
}

func (m *Model) viewInvite() string {
	i := m.invite
	s := m.styles
	var b strings.Builder

	b.WriteString(s.Title.Render("Team invitation"))
	b.WriteString("\n\n")

	switch i.state.Status {
	case invite.StatusValidating:
		b.WriteString(s.Muted.Render(m.spinner.View() + " Checking your invitation..."))
	case invite.StatusInvalid:
		b.WriteString(s.FieldErr.Render(i.state.Error))
		b.WriteString("\n\n")
		b.WriteString(s.Muted.Render("Ask the person who invited you for a new link. enter sign in"))
	case invite.StatusSuccess:
		b.WriteString("Your account is ready. Taking you to your team...")
	default:
		info := i.state.Info
		fmt.Fprintf(&b, "%s invited %s to join %s.\n\n",
			orDash(info.InviterName), orDash(info.Email), s.Subtitle.Render(orDash(info.EnterpriseName)))
		if i.state.Status == invite.StatusError && i.state.Error != "" {
			b.WriteString(s.FieldErr.Render(i.state.Error))
			b.WriteString("\n\n")
		}
		b.WriteString(i.form.View())
		if i.state.Status == invite.StatusSubmitting {
			b.WriteString("\n\n")
			b.WriteString(s.Muted.Render(m.spinner.View() + " Creating your account..."))
		}
	}
	return b.String()
}

func (m *Model) viewPortal() string {
	p := m.portal
	s := m.styles
	var b strings.Builder

	if !p.loaded {
		return s.Muted.Render(m.spinner.View() + " Loading your team...")
	}

	b.WriteString(s.Title.Render(orDash(p.portal.EnterpriseName)))
	b.WriteString("\n\n")
	b.WriteString(s.Subtitle.Render("Your actions"))
	b.WriteString("\n")
	if len(p.portal.AssignedTasks) == 0 {
		b.WriteString(s.Muted.Render("  Nothing assigned to you"))
		b.WriteString("\n")
	}
	for _, t := range p.portal.AssignedTasks {
		due := ""
		if t.DueDate != nil {
			due = " due " + t.DueDate.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "  [%s] %s %s%s\n", t.Priority.Short(), t.Title, s.Muted.Render(t.Column.Label()), s.Muted.Render(due))
	}
	b.WriteString("\n")
	b.WriteString(s.Subtitle.Render(fmt.Sprintf("Team (%d)", len(p.portal.Members))))
	b.WriteString("\n")
	for _, mem := range p.portal.Members {
		fmt.Fprintf(&b, "  %-28s %s\n", mem.Name, s.Muted.Render(mem.Email))
	}
	b.WriteString("\n")
	b.WriteString(s.Muted.Render("r refresh • s settings • L sign out"))
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
