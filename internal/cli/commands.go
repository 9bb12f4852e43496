// Package cli implements the vantage command line: the TUI launcher and
// the scriptable subcommands that share its configuration and session.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/riordanpawley/vantage/internal/api"
	"github.com/riordanpawley/vantage/internal/config"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/riordanpawley/vantage/internal/invite"
	"github.com/riordanpawley/vantage/internal/services/attachment"
	"github.com/riordanpawley/vantage/internal/services/diagnostics"
	"github.com/riordanpawley/vantage/internal/session"
)

// Dependencies holds all the services needed for CLI commands
type Dependencies struct {
	Config      *config.Config
	Client      *api.Client
	Store       *session.Store
	Attachments *attachment.Service
	Logger      *slog.Logger

	Out io.Writer
	In  io.Reader

	closeLog func() error
}

// NewDependencies creates a new Dependencies instance with all required services
func NewDependencies(cfg *config.Config, out io.Writer, in io.Reader) (*Dependencies, error) {
	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	store := session.NewStore(cfg.Session.Path, logger)
	if _, err := store.Load(); err != nil {
		// A corrupt session file means signing in again, not a fatal error
		logger.Warn("ignoring unreadable session", "error", err)
	}

	return &Dependencies{
		Config:      cfg,
		Client:      api.NewClient(cfg.API.BaseURL, nil, cfg.API.Timeout(), logger),
		Store:       store,
		Attachments: attachment.NewService(filepath.Join(filepath.Dir(cfg.Session.Path), "evidence"), logger),
		Logger:      logger,
		Out:         out,
		In:          in,
		closeLog:    closeLog,
	}, nil
}

// Close flushes and closes the log file
func (d *Dependencies) Close() error {
	if d.closeLog == nil {
		return nil
	}
	return d.closeLog()
}

// newLogger writes text logs to the configured file; stdout belongs to the TUI
func newLogger(cfg config.LogConfig) (*slog.Logger, func() error, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	if cfg.File == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f.Close, nil
}

func (d *Dependencies) token(ctx context.Context) (string, error) {
	d.refresh(ctx)
	token := d.Store.AccessToken()
	if token == "" {
		return "", errors.New("not signed in (run 'vantage login')")
	}
	return token, nil
}

// refresh renews an expired access token. Failures only leave the stale
// token in place for the server to reject.
func (d *Dependencies) refresh(ctx context.Context) {
	if _, err := d.Store.RefreshExpired(ctx, d.Client, time.Now()); err != nil {
		d.Logger.Warn("session refresh failed", "error", err)
	}
}

// prompt reads one line from In, printing label first
func (d *Dependencies) prompt(label string) (string, error) {
	fmt.Fprint(d.Out, label)
	line, err := bufio.NewReader(d.In).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// LoginCommand signs in and stores the issued credentials
func LoginCommand(ctx context.Context, deps *Dependencies, email, password string) error {
	var err error
	if email == "" {
		if email, err = deps.prompt("Email: "); err != nil {
			return err
		}
	}
	email = strings.TrimSpace(email)
	if err := domain.ValidateEmail(email); err != nil {
		return err
	}
	if password == "" {
		if password, err = deps.prompt("Password: "); err != nil {
			return err
		}
	}
	if err := domain.Required("password", "Password", password); err != nil {
		return err
	}

	pair, err := deps.Client.Login(ctx, domain.Credentials{Email: email, Password: password})
	if errors.Is(err, domain.ErrUnauthorized) {
		return errors.New("invalid email or password")
	}
	if err != nil {
		return err
	}
	if err := deps.Store.Save(session.FromTokens(pair)); err != nil {
		return err
	}

	deps.Logger.Info("signed in", "email", email)
	fmt.Fprintf(deps.Out, "✓ Signed in as %s\n", email)
	return nil
}

// LogoutCommand revokes the refresh credential and clears the session file
func LogoutCommand(ctx context.Context, deps *Dependencies) error {
	sess := deps.Store.Current()
	if !sess.Authenticated() {
		fmt.Fprintln(deps.Out, "Not signed in")
		return nil
	}

	if err := deps.Client.Logout(ctx, sess.AccessToken, sess.RefreshToken); err != nil {
		// The local session is cleared regardless
		deps.Logger.Warn("failed to revoke session", "error", err)
	}
	if err := deps.Store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(deps.Out, "✓ Signed out")
	return nil
}

// WhoamiCommand shows the signed-in account
func WhoamiCommand(ctx context.Context, deps *Dependencies) error {
	token, err := deps.token(ctx)
	if err != nil {
		return err
	}

	profile, err := deps.Client.GetProfile(ctx, token)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(deps.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Email:\t%s\n", profile.Email)
	if name := profile.FullName(); name != "" {
		fmt.Fprintf(w, "Name:\t%s\n", name)
	}
	role := "team member"
	if profile.IsOwner {
		role = "owner"
	}
	fmt.Fprintf(w, "Role:\t%s\n", role)
	fmt.Fprintf(w, "API:\t%s\n", deps.Client.BaseURL())

	// Tokens issued by the backend are JWTs; anything else has no expiry to show
	if claims, err := session.ParseClaims(token); err == nil && !claims.ExpiresAt.IsZero() {
		expiry := claims.ExpiresAt.Local().Format(time.RFC1123)
		if claims.Expired(time.Now()) {
			expiry += " (expired)"
		}
		fmt.Fprintf(w, "Session expires:\t%s\n", expiry)
	}
	return w.Flush()
}

// TasksCommand prints the action plan, one column after another
func TasksCommand(ctx context.Context, deps *Dependencies, column string) error {
	token, err := deps.token(ctx)
	if err != nil {
		return err
	}

	columns := domain.Columns
	byColumn := map[domain.Column][]domain.Task{}
	if column != "" {
		col, ok := domain.ParseColumn(column)
		if !ok {
			return fmt.Errorf("unknown column %q (use todo, in_progress or completed)", column)
		}
		columns = []domain.Column{col}

		// one column is filtered server side
		tasks, err := deps.Client.ListActionItems(ctx, token, col)
		if err != nil {
			return err
		}
		for _, t := range tasks {
			byColumn[t.Column] = append(byColumn[t.Column], t)
		}
	} else {
		board, err := deps.Client.GetBoard(ctx, token)
		if err != nil {
			return err
		}
		for _, col := range columns {
			byColumn[col] = board.Column(col)
		}
	}

	w := tabwriter.NewWriter(deps.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOLUMN\tPRIORITY\tDUE\tTITLE")
	count := 0
	for _, col := range columns {
		for _, t := range byColumn[col] {
			due := "-"
			if t.DueDate != nil {
				due = t.DueDate.Format("2006-01-02")
			}
			title := t.Title
			if len(title) > 60 {
				title = title[:57] + "..."
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, col.Title(), t.Priority, due, title)
			count++
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(deps.Out, "\n%d actions\n", count)
	return nil
}

// VerifyCommand confirms an email address with the token from the link
func VerifyCommand(ctx context.Context, deps *Dependencies, token string) error {
	msg, err := deps.Client.VerifyEmail(ctx, token)
	if err != nil {
		return err
	}
	text := msg.Message
	if text == "" {
		text = "Email verified"
	}
	fmt.Fprintf(deps.Out, "✓ %s\n", text)
	return nil
}

// AcceptInviteCommand joins a team with an invitation token, running the
// same flow as the invitation screen
func AcceptInviteCommand(ctx context.Context, deps *Dependencies, token string, form invite.Submit) error {
	svc := invite.NewService(deps.Client, deps.Store, deps.Logger)

	state := invite.New(token)
	if state.Status == invite.StatusValidating {
		state, _ = invite.Reduce(state, svc.Validate(ctx, token))
	}
	if state.Status == invite.StatusInvalid {
		return errors.New(state.Error)
	}
	fmt.Fprintf(deps.Out, "Invitation to %s for %s\n", state.Info.EnterpriseName, state.Info.Email)

	if form.Password == "" {
		pw, err := deps.prompt("Password: ")
		if err != nil {
			return err
		}
		form.Password = pw
		if form.ConfirmPassword, err = deps.prompt("Confirm password: "); err != nil {
			return err
		}
	}
	if form.ConfirmPassword == "" {
		form.ConfirmPassword = form.Password
	}

	state, effect := invite.Reduce(state, form)
	if effect.Err != nil {
		return effect.Err
	}
	if effect.Accept == nil {
		return fmt.Errorf("invitation cannot be accepted (%s)", state.Status)
	}

	_, effect = invite.Reduce(state, svc.Accept(ctx, *effect.Accept))
	if effect.Err != nil {
		return effect.Err
	}
	fmt.Fprintf(deps.Out, "✓ %s\n", effect.Success)
	return nil
}

// DoctorCommand checks connectivity, the stored session and local files.
// It fails when the check finds errors.
func DoctorCommand(ctx context.Context, deps *Dependencies) error {
	svc := diagnostics.NewService(deps.Client, deps.Client, deps.Store, deps.Config.Log.File)
	diag := svc.CollectDiagnostics(ctx)

	fmt.Fprint(deps.Out, svc.FormatDiagnostics(diag))
	if diag.OverallState == diagnostics.HealthCritical {
		return fmt.Errorf("%d problem(s) found", len(diag.Errors))
	}
	return nil
}
