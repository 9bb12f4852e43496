package app

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/riordanpawley/vantage/internal/session"
	"github.com/riordanpawley/vantage/internal/types"
	"github.com/riordanpawley/vantage/internal/ui/overlay"
)

// Form ids
const (
	formLogin        = "login"
	formRegister     = "register"
	formResetRequest = "reset-request"
	formResetConfirm = "reset-confirm"
	formResend       = "resend-verification"
	formComment      = "comment"
	formProfile      = "profile"
	formPassword     = "password"
	formEnterprise   = "enterprise"
	formInvite       = "invite"
	formAcceptInvite = "accept-invite"
)

type verifyState int

const (
	verifyPending verifyState = iota
	verifyDone
	verifyFailed
)

// authScreen backs the login, register, password reset and email
// verification screens
type authScreen struct {
	form    *overlay.Form
	busy    bool
	notice  string // success text shown above the form
	uid     string
	token   string
	verify  verifyState
	failure string
}

type loginResultMsg struct {
	pair domain.TokenPair
	err  error
}

type registerResultMsg struct {
	email string
	msg   domain.Message
	err   error
}

type resetResultMsg struct {
	confirm bool
	msg     domain.Message
	err     error
}

type verifyResultMsg struct {
	resend bool
	msg    domain.Message
	err    error
}

func loginForm() *overlay.Form {
	return overlay.NewForm(formLogin, "Sign in", "Sign in", []overlay.Field{
		{Key: "email", Label: "Email", Placeholder: "you@company.com"},
		{Key: "password", Label: "Password", Secret: true},
	}, func(v map[string]string) error {
		if err := domain.ValidateEmail(v["email"]); err != nil {
			return err
		}
		return domain.Required("password", "Password", v["password"])
	}).Embedded()
}

func registerForm() *overlay.Form {
	return overlay.NewForm(formRegister, "Create account", "Register", []overlay.Field{
		{Key: "first_name", Label: "First name"},
		{Key: "last_name", Label: "Last name"},
		{Key: "email", Label: "Email", Placeholder: "you@company.com"},
		{Key: "password", Label: "Password", Secret: true},
		{Key: "confirm_password", Label: "Confirm", Secret: true},
	}, func(v map[string]string) error {
		if err := domain.Required("first_name", "First name", v["first_name"]); err != nil {
			return err
		}
		if err := domain.ValidateEmail(v["email"]); err != nil {
			return err
		}
		return domain.ValidatePasswordPair(v["password"], v["confirm_password"])
	}).Embedded()
}

func emailForm(id, title, submit string) *overlay.Form {
	return overlay.NewForm(id, title, submit, []overlay.Field{
		{Key: "email", Label: "Email", Placeholder: "you@company.com"},
	}, func(v map[string]string) error {
		return domain.ValidateEmail(v["email"])
	}).Embedded()
}

func newPasswordForm() *overlay.Form {
	return overlay.NewForm(formResetConfirm, "Choose a new password", "Reset password", []overlay.Field{
		{Key: "password", Label: "Password", Secret: true},
		{Key: "confirm_password", Label: "Confirm", Secret: true},
	}, func(v map[string]string) error {
		return domain.ValidatePasswordPair(v["password"], v["confirm_password"])
	}).Embedded()
}

// enterAuth sets up one of the signed-out screens
func (m *Model) enterAuth(screen types.Screen, route Route) tea.Cmd {
	a := &authScreen{uid: route.UID, token: route.Token}
	m.auth = a

	switch screen {
	case types.ScreenLogin:
		a.form = loginForm()
	case types.ScreenRegister:
		a.form = registerForm()
	case types.ScreenPasswordReset:
		if a.uid != "" && a.token != "" {
			a.form = newPasswordForm()
		} else {
			a.form = emailForm(formResetRequest, "Reset your password", "Send reset link")
		}
	case types.ScreenVerify:
		switch {
		case a.token != "":
			m.loading("verify", "Verifying your email...")
			token := a.token
			client := m.client
			return m.async(func(ctx context.Context, _ string) tea.Msg {
				msg, err := client.VerifyEmail(ctx, token)
				return verifyResultMsg{msg: msg, err: err}
			})
		case route.Verification == "success" || route.Verification == "verified":
			a.verify = verifyDone
			a.notice = "Your email address is verified."
		default:
			a.verify = verifyFailed
			a.failure = route.Error
			if a.failure == "" {
				a.failure = "The verification link is missing or invalid."
			}
			a.form = emailForm(formResend, "Resend verification email", "Resend")
		}
	}

	if a.form != nil {
		return a.form.Init()
	}
	return nil
}

func (m *Model) authKey(msg tea.KeyMsg) tea.Cmd {
	a := m.auth
	switch msg.String() {
	case "ctrl+e":
		if m.screen == types.ScreenLogin {
			return m.overlayStack.Push(overlay.NewEnvironmentPicker(m.cfg.Environments, m.client.BaseURL()))
		}
	case "ctrl+r":
		if m.screen == types.ScreenLogin {
			return m.navigate(types.ScreenRegister)
		}
	case "ctrl+f":
		if m.screen == types.ScreenLogin {
			return m.navigate(types.ScreenPasswordReset)
		}
	case "esc":
		if m.screen != types.ScreenLogin {
			return m.navigate(types.ScreenLogin)
		}
	case "enter":
		if a.form == nil {
			return m.navigate(types.ScreenLogin)
		}
	}

	if a.form == nil {
		return nil
	}
	_, cmd := a.form.Update(msg)
	return cmd
}

// submitAuth sends a validated signed-out form
func (m *Model) submitAuth(msg overlay.FormSubmittedMsg) tea.Cmd {
	a := m.auth
	if a == nil || a.form == nil || a.form.ID() != msg.ID || a.busy {
		return nil
	}
	a.busy = true
	client := m.client
	v := msg.Values

	switch msg.ID {
	case formLogin:
		m.loading("login", "Signing in...")
		creds := domain.Credentials{Email: v["email"], Password: v["password"]}
		return m.async(func(ctx context.Context, _ string) tea.Msg {
			pair, err := client.Login(ctx, creds)
			return loginResultMsg{pair: pair, err: err}
		})

	case formRegister:
		m.loading("register", "Creating your account...")
		reg := domain.Registration{
			Email:           v["email"],
			Password:        v["password"],
			ConfirmPassword: v["confirm_password"],
			FirstName:       v["first_name"],
			LastName:        v["last_name"],
		}
		return m.async(func(ctx context.Context, _ string) tea.Msg {
			res, err := client.Register(ctx, reg)
			return registerResultMsg{email: reg.Email, msg: res, err: err}
		})

	case formResetRequest:
		m.loading("reset", "Sending reset link...")
		email := v["email"]
		return m.async(func(ctx context.Context, _ string) tea.Msg {
			res, err := client.RequestPasswordReset(ctx, email)
			return resetResultMsg{msg: res, err: err}
		})

	case formResetConfirm:
		m.loading("reset", "Updating your password...")
		req := domain.PasswordResetConfirm{
			UID:             a.uid,
			Token:           a.token,
			Password:        v["password"],
			ConfirmPassword: v["confirm_password"],
		}
		return m.async(func(ctx context.Context, _ string) tea.Msg {
			res, err := client.ConfirmPasswordReset(ctx, req)
			return resetResultMsg{confirm: true, msg: res, err: err}
		})

	case formResend:
		m.loading("verify", "Sending a new verification email...")
		email := v["email"]
		return m.async(func(ctx context.Context, _ string) tea.Msg {
			res, err := client.ResendVerification(ctx, email)
			return verifyResultMsg{resend: true, msg: res, err: err}
		})
	}
	a.busy = false
	return nil
}

func (m *Model) handleAuthResult(msg tea.Msg) tea.Cmd {
	a := m.auth
	if a == nil {
		return nil
	}
	a.busy = false

	switch msg := msg.(type) {
	case loginResultMsg:
		if msg.err != nil {
			a.form.ResetSecrets()
			if errors.Is(msg.err, domain.ErrUnauthorized) {
				m.logger.Info("login rejected")
				m.notify("login", types.ToastError, "Invalid email or password")
				return nil
			}
			return m.fail("login", msg.err)
		}
		if err := m.store.Save(session.FromTokens(msg.pair)); err != nil {
			m.logger.Error("failed to save session", "error", err)
			m.notify("login", types.ToastError, "Signed in, but the session could not be saved")
			return nil
		}
		m.logger.Info("signed in")
		cmd := m.navigate(types.ScreenBoard)
		m.notify("login", types.ToastSuccess, "Welcome back")
		return cmd

	case registerResultMsg:
		if msg.err != nil {
			a.form.ResetSecrets()
			return m.fail("register", msg.err)
		}
		cmd := m.navigate(types.ScreenLogin)
		m.auth.form.SetValue("email", msg.email)
		m.notify("register", types.ToastSuccess, messageOr(msg.msg, "Account created. Check your inbox to verify your email."))
		return cmd

	case resetResultMsg:
		if msg.err != nil {
			a.form.ResetSecrets()
			return m.fail("reset", msg.err)
		}
		if msg.confirm {
			cmd := m.navigate(types.ScreenLogin)
			m.notify("reset", types.ToastSuccess, messageOr(msg.msg, "Password updated. Please sign in."))
			return cmd
		}
		a.notice = messageOr(msg.msg, "If an account exists for that address, a reset link is on its way.")
		m.notify("reset", types.ToastSuccess, "Reset link sent")
		return nil

	case verifyResultMsg:
		if msg.resend {
			if msg.err != nil {
				return m.fail("verify", msg.err)
			}
			a.notice = messageOr(msg.msg, "A new verification email has been sent.")
			m.notify("verify", types.ToastSuccess, "Verification email sent")
			return nil
		}
		if msg.err != nil {
			a.verify = verifyFailed
			a.failure = domain.UserMessage(msg.err)
			a.form = emailForm(formResend, "Resend verification email", "Resend")
			m.logger.Info("email verification failed", "error", msg.err)
			m.notify("verify", types.ToastError, "Email verification failed")
			return a.form.Init()
		}
		a.verify = verifyDone
		a.notice = messageOr(msg.msg, "Your email address is verified.")
		m.notify("verify", types.ToastSuccess, "Email verified. You can now sign in.")
		return nil
	}
	return nil
}

func messageOr(msg domain.Message, fallback string) string {
	if s := strings.TrimSpace(msg.Message); s != "" {
		return s
	}
	return fallback
}

func (m *Model) viewAuth() string {
	a := m.auth
	s := m.styles
	var b strings.Builder

	b.WriteString(s.Title.Render("Vantage"))
	b.WriteString("\n")
	b.WriteString(s.Subtitle.Render("Business diagnostics"))
	b.WriteString("\n\n")

	if m.screen == types.ScreenVerify {
		switch a.verify {
		case verifyPending:
			b.WriteString(s.Muted.Render(m.spinner.View() + " Verifying your email address..."))
			return b.String()
		case verifyDone:
			b.WriteString(a.notice)
			b.WriteString("\n\n")
			b.WriteString(s.Muted.Render("Press enter to sign in"))
			return b.String()
		case verifyFailed:
			b.WriteString(s.FieldErr.Render(a.failure))
			b.WriteString("\n\n")
		}
	}

	if a.notice != "" && m.screen != types.ScreenVerify || a.notice != "" && a.verify == verifyFailed {
		b.WriteString(a.notice)
		b.WriteString("\n\n")
	}
	if a.form != nil {
		b.WriteString(a.form.View())
		b.WriteString("\n\n")
	}

	switch m.screen {
	case types.ScreenLogin:
		b.WriteString(s.Muted.Render("ctrl+r create account • ctrl+f forgot password • ctrl+e environment"))
		b.WriteString("\n")
		b.WriteString(s.Muted.Render("API " + m.client.BaseURL()))
	default:
		b.WriteString(s.Muted.Render("esc back to sign in"))
	}
	return b.String()
}
