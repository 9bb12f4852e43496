// Package app contains the main application model and TEA implementation.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/vantage/internal/api"
	"github.com/riordanpawley/vantage/internal/config"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/riordanpawley/vantage/internal/invite"
	"github.com/riordanpawley/vantage/internal/services/network"
	"github.com/riordanpawley/vantage/internal/session"
	"github.com/riordanpawley/vantage/internal/types"
	"github.com/riordanpawley/vantage/internal/ui/overlay"
	"github.com/riordanpawley/vantage/internal/ui/styles"
)

// Deps are the services the model drives
type Deps struct {
	Config   *config.Config
	Client   *api.Client
	Store    *session.Store
	Attacher overlay.Attacher
	Logger   *slog.Logger
	Route    Route
	// Now defaults to time.Now
	Now func() time.Time
}

// Model is the main application state
type Model struct {
	cfg      *config.Config
	client   *api.Client
	store    *session.Store
	attacher overlay.Attacher
	invites  *invite.Service
	logger   *slog.Logger
	now      func() time.Time

	// Active screen. gen changes on every navigation so results of requests
	// started on an earlier screen are dropped.
	screen types.Screen
	gen    int
	ctx    context.Context
	cancel context.CancelFunc
	start  tea.Cmd

	profile *domain.Profile
	online  bool

	// Per-screen state, only the active screen's is non-nil
	auth        *authScreen
	board       *boardScreen
	assessments *assessmentsScreen
	wizard      *wizardScreen
	settings    *settingsScreen
	invite      *inviteScreen
	portal      *portalScreen

	overlayStack *overlay.Stack
	toasts       types.Toasts
	spinner      spinner.Model
	keys         KeyMap
	styles       *styles.Styles

	width  int
	height int
}

// screenMsg wraps the result of a request started by the screen of
// generation gen
type screenMsg struct {
	gen int
	msg tea.Msg
}

type toastTickMsg time.Time

// New creates the application model and selects the first screen
func New(deps Deps) Model {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	client := deps.Client
	if client == nil {
		client = api.NewClient(cfg.API.BaseURL, nil, cfg.API.Timeout(), logger)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	m := Model{
		cfg:          cfg,
		client:       client,
		store:        deps.Store,
		attacher:     deps.Attacher,
		invites:      invite.NewService(client, deps.Store, logger),
		logger:       logger,
		now:          now,
		online:       true, // Optimistically assume online
		overlayStack: overlay.NewStack(),
		spinner:      s,
		keys:         DefaultKeyMap(),
		styles:       styles.New(),
	}

	route := deps.Route
	m.routeToasts(route)
	m.start = m.open(route)
	return m
}

// Init returns the initial command for the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		toastTick(),
		m.start,
	)
}

// Screen returns the active screen
func (m Model) Screen() types.Screen {
	return m.screen
}

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case toastTickMsg:
		m.toasts = m.toasts.Prune(m.now())
		return toastTick()

	case network.StatusMsg:
		if msg.Online != m.online {
			if msg.Online {
				m.notify("network", types.ToastSuccess, "Back online")
			} else {
				m.notify("network", types.ToastWarning, "Cannot reach the server")
			}
		}
		m.online = msg.Online
		return nil

	case screenMsg:
		if msg.gen != m.gen {
			m.logger.Debug("dropping result for a closed screen", "type", fmt.Sprintf("%T", msg.msg))
			return nil
		}
		return m.handleResult(msg.msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.shutdown()
			return tea.Quit
		}
		if !m.overlayStack.IsEmpty() {
			return m.overlayStack.Update(msg)
		}
		return m.handleKey(msg)

	case overlay.CloseOverlayMsg:
		m.overlayStack.Pop()
		return nil

	case overlay.InvalidInputMsg:
		m.notify("", types.ToastWarning, msg.Err.Message)
		return nil

	case overlay.SelectionMsg:
		return m.handleSelection(msg)

	case overlay.FormSubmittedMsg:
		return m.handleForm(msg)

	case overlay.EnvironmentSelectedMsg:
		m.useEnvironment(msg.Name, msg.URL)
		return nil

	case overlay.SearchMsg, overlay.TaskCreatedMsg, overlay.TaskEditedMsg, overlay.NoteSubmittedMsg:
		return m.handleBoardOverlay(msg)

	case overlay.EvidenceAttachedMsg, overlay.EvidenceRemovedMsg:
		return m.handleWizardOverlay(msg)

	case overlay.NotificationsSavedMsg:
		return m.saveNotifications(msg.Settings)
	}

	// Anything else (cursor blinks and similar) goes to whatever has focus
	if !m.overlayStack.IsEmpty() {
		return m.overlayStack.Update(msg)
	}
	if form := m.activeForm(); form != nil {
		_, cmd := form.Update(msg)
		return cmd
	}
	return nil
}

// handleKey routes keys by screen
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.screen {
	case types.ScreenLogin, types.ScreenRegister, types.ScreenPasswordReset, types.ScreenVerify:
		return m.authKey(msg)
	case types.ScreenBoard:
		return m.boardKey(msg)
	case types.ScreenAssessments:
		return m.assessmentsKey(msg)
	case types.ScreenWizard:
		return m.wizardKey(msg)
	case types.ScreenSettings:
		return m.settingsKey(msg)
	case types.ScreenInvite:
		return m.inviteKey(msg)
	case types.ScreenPortal:
		return m.portalKey(msg)
	}
	return nil
}

// handleResult dispatches the result of a request made by the active screen
func (m *Model) handleResult(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loginResultMsg, registerResultMsg, resetResultMsg, verifyResultMsg:
		return m.handleAuthResult(msg)
	case dashboardLoadedMsg, boardLoadedMsg, taskSavedMsg, taskDeletedMsg, taskLoadedMsg, noteAddedMsg, movePersistedMsg:
		return m.handleBoardResult(msg)
	case assessmentsLoadedMsg, reportLoadedMsg:
		return m.handleAssessmentsResult(msg)
	case catalogLoadedMsg, submissionMsg, resetAnswersMsg:
		return m.handleWizardResult(msg)
	case settingsLoadedMsg, settingsSavedMsg:
		return m.handleSettingsResult(msg)
	case inviteActionMsg, redirectMsg, portalLoadedMsg:
		return m.handleInviteResult(msg)
	}
	return nil
}

// handleSelection handles overlay selection messages. The selecting overlay
// is closed first.
func (m *Model) handleSelection(msg overlay.SelectionMsg) tea.Cmd {
	current := m.overlayStack.Pop()

	if result, ok := msg.Value.(overlay.ConfirmResult); ok {
		if !result.Confirmed {
			return m.declined(result)
		}
		return m.confirmed(result)
	}

	switch o := current.(type) {
	case *overlay.ActionMenu:
		return m.boardAction(o.Task(), msg.Key)
	case *overlay.DetailPanel:
		if task, ok := msg.Value.(domain.Task); ok {
			return m.boardAction(task, msg.Key)
		}
	}
	return nil
}

func (m *Model) confirmed(result overlay.ConfirmResult) tea.Cmd {
	switch result.Action {
	case overlay.ConfirmDeleteTask:
		return m.deleteTask(result.Target)
	case overlay.ConfirmExitWizard:
		cmd := m.navigate(types.ScreenBoard)
		m.notify("", types.ToastInfo, "Assessment closed without submitting")
		return cmd
	case overlay.ConfirmRetake:
		return m.retake()
	case overlay.ConfirmDeleteAccount:
		return m.deleteAccount()
	case overlay.ConfirmDeleteEnterprise:
		return m.deleteEnterprise()
	case overlay.ConfirmRemoveMember:
		return m.removeMember(result.Target)
	case overlay.ConfirmRevokeInvitation:
		return m.revokeInvitation(result.Target)
	case overlay.ConfirmLogout:
		return m.logout()
	}
	return nil
}

func (m *Model) declined(result overlay.ConfirmResult) tea.Cmd {
	if result.Action == overlay.ConfirmExitWizard && m.wizard != nil {
		m.wizard.dispatch(cancelExit)
	}
	return nil
}

// handleForm routes a submitted form by its id
func (m *Model) handleForm(msg overlay.FormSubmittedMsg) tea.Cmd {
	switch msg.ID {
	case formLogin, formRegister, formResetRequest, formResetConfirm, formResend:
		return m.submitAuth(msg)
	case formComment:
		return m.submitComment(msg.Values)
	case formProfile, formPassword, formEnterprise, formInvite:
		return m.submitSettings(msg)
	case formAcceptInvite:
		return m.submitInvite(msg.Values)
	}
	return nil
}

// activeForm returns the form embedded in the current screen, if any
func (m *Model) activeForm() *overlay.Form {
	switch {
	case m.auth != nil:
		return m.auth.form
	case m.settings != nil && m.settings.tab == tabProfile:
		return m.settings.profileForm
	case m.invite != nil:
		return m.invite.form
	}
	return nil
}

// open selects the first screen for a route
func (m *Model) open(route Route) tea.Cmd {
	authed := m.store != nil && m.store.Current().Authenticated()
	switch route.Screen {
	case types.ScreenInvite, types.ScreenVerify, types.ScreenPasswordReset, types.ScreenRegister:
		return m.navigateWith(route.Screen, route)
	}
	if authed {
		return m.navigate(types.ScreenBoard)
	}
	return m.navigateWith(types.ScreenLogin, route)
}

func (m *Model) routeToasts(route Route) {
	switch route.Verification {
	case "success", "verified":
		m.notify("", types.ToastSuccess, "Email verified. You can now sign in.")
	case "failed", "error", "expired":
		m.notify("", types.ToastError, "Email verification failed. Request a new link below.")
	}
	if route.Message != "" {
		m.notify("", types.ToastInfo, route.Message)
	}
	if route.Error != "" {
		m.notify("", types.ToastError, route.Error)
	}
}

// navigate leaves the current screen, cancelling its requests, and enters
// screen
func (m *Model) navigate(screen types.Screen) tea.Cmd {
	return m.navigateWith(screen, Route{Screen: screen})
}

func (m *Model) navigateWith(screen types.Screen, route Route) tea.Cmd {
	if !screen.Public() && (m.store == nil || !m.store.Current().Authenticated()) {
		screen = types.ScreenLogin
	}

	if m.cancel != nil {
		m.cancel()
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.gen++
	m.overlayStack.Clear()
	m.auth, m.board, m.assessments, m.wizard, m.settings, m.invite, m.portal = nil, nil, nil, nil, nil, nil, nil
	m.screen = screen
	m.logger.Debug("navigate", "screen", screen.String())

	var cmd tea.Cmd
	switch screen {
	case types.ScreenLogin, types.ScreenRegister, types.ScreenPasswordReset, types.ScreenVerify:
		cmd = m.enterAuth(screen, route)
	case types.ScreenBoard:
		cmd = m.enterBoard()
	case types.ScreenAssessments:
		cmd = m.enterAssessments()
	case types.ScreenWizard:
		cmd = m.enterWizard()
	case types.ScreenSettings:
		cmd = m.enterSettings()
	case types.ScreenInvite:
		cmd = m.enterInvite(route.Token)
	case types.ScreenPortal:
		cmd = m.enterPortal()
	}
	m.resize()
	return cmd
}

// async runs fn off the event loop with the active screen's context and
// access token
func (m *Model) async(fn func(ctx context.Context, token string) tea.Msg) tea.Cmd {
	ctx, gen := m.ctx, m.gen
	var token string
	if m.store != nil {
		token = m.store.AccessToken()
	}
	return func() tea.Msg {
		return screenMsg{gen: gen, msg: fn(ctx, token)}
	}
}

// after delivers msg to the active screen once d has passed
func (m *Model) after(d time.Duration, msg tea.Msg) tea.Cmd {
	gen := m.gen
	return tea.Tick(d, func(time.Time) tea.Msg {
		return screenMsg{gen: gen, msg: msg}
	})
}

func toastTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// loading shows a toast that stays until a result with the same id replaces it
func (m *Model) loading(id, text string) {
	m.toasts = m.toasts.Push(types.Toast{ID: id, Level: types.ToastLoading, Message: text})
}

// notify shows a toast, replacing the loading toast with the same id
func (m *Model) notify(id string, level types.ToastLevel, text string) {
	d := m.cfg.UI.ToastDuration()
	if level == types.ToastError || level == types.ToastWarning {
		d = m.cfg.UI.ErrorToastDuration()
	}
	m.toasts = m.toasts.Push(types.Toast{ID: id, Level: level, Message: text, Expires: m.now().Add(d)})
}

// fail reports a failed request. Expired sessions go back to login and
// team-member-only accounts to the team portal.
func (m *Model) fail(id string, err error) tea.Cmd {
	if errors.Is(err, context.Canceled) {
		m.toasts = m.toasts.Resolve(id)
		return nil
	}

	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		m.notify(id, types.ToastWarning, valErr.Message)
		return nil
	}

	if errors.Is(err, domain.ErrUnauthorized) && !m.screen.Public() {
		m.logger.Info("session rejected, signing out", "op", id)
		m.clearSession()
		cmd := m.navigate(types.ScreenLogin)
		m.notify(id, types.ToastError, "Your session has expired. Please sign in again.")
		return cmd
	}

	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.IsTeamMemberOnly && m.screen != types.ScreenPortal {
		m.logger.Info("team member only, redirecting to portal", "op", id)
		cmd := m.navigate(types.ScreenPortal)
		m.notify(id, types.ToastWarning, apiErr.UserMessage())
		return cmd
	}

	m.logger.Warn("request failed", "op", id, "error", err)
	m.notify(id, types.ToastError, domain.UserMessage(err))
	return nil
}

func (m *Model) clearSession() {
	m.profile = nil
	if m.store == nil {
		return
	}
	if err := m.store.Clear(); err != nil {
		m.logger.Error("failed to clear session", "error", err)
	}
}

// logout forgets the credentials locally right away and revokes the refresh
// token in the background
func (m *Model) logout() tea.Cmd {
	sess := m.store.Current()
	client, logger := m.client, m.logger

	m.clearSession()
	cmd := m.navigate(types.ScreenLogin)
	m.notify("logout", types.ToastSuccess, "Signed out")

	revoke := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Logout(ctx, sess.AccessToken, sess.RefreshToken); err != nil {
			logger.Debug("logout request failed", "error", err)
		}
		return nil
	}
	return tea.Batch(cmd, revoke)
}

func (m *Model) confirmLogout() tea.Cmd {
	return m.overlayStack.Push(overlay.NewConfirmDialog(
		"Sign out", "Sign out of Vantage on this computer?", overlay.ConfirmLogout, ""))
}

func (m *Model) useEnvironment(name, url string) {
	m.cfg.API.BaseURL = url
	m.client = api.NewClient(url, nil, m.cfg.API.Timeout(), m.logger)
	m.invites = invite.NewService(m.client, m.store, m.logger)
	m.logger.Info("switched environment", "name", name, "url", url)
	m.notify("environment", types.ToastInfo, fmt.Sprintf("Using %s (%s)", name, url))
}

func (m *Model) shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
}

// resize propagates the terminal size to size-dependent widgets
func (m *Model) resize() {
	if m.assessments != nil {
		m.assessments.resize(m.width, m.bodyHeight())
	}
	if m.settings != nil {
		m.settings.resize(m.width, m.bodyHeight())
	}
}

// bodyHeight is the height left for the screen body
func (m *Model) bodyHeight() int {
	return max(0, m.height-3) // header + status bar + gap
}
