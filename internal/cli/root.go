package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/vantage/internal/app"
	"github.com/riordanpawley/vantage/internal/config"
	"github.com/riordanpawley/vantage/internal/invite"
	"github.com/riordanpawley/vantage/internal/services/network"
	"github.com/riordanpawley/vantage/internal/types"
	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every command
type options struct {
	configPath string
	apiURL     string
	env        string

	deps *Dependencies
}

func (o *options) load(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if o.env != "" {
		if err := cfg.UseEnvironment(o.env); err != nil {
			return err
		}
	}
	if o.apiURL != "" {
		cfg.API.BaseURL = o.apiURL
	}

	deps, err := NewDependencies(cfg, cmd.OutOrStdout(), cmd.InOrStdin())
	if err != nil {
		return err
	}
	o.deps = deps
	return nil
}

func (o *options) close() error {
	if o.deps == nil {
		return nil
	}
	return o.deps.Close()
}

// NewRootCommand builds the vantage command tree
func NewRootCommand() *cobra.Command {
	o := &options{}
	var invToken, verifyToken string

	root := &cobra.Command{
		Use:   "vantage",
		Short: "Vantage - business diagnostics and action plans in the terminal",
		Long: `Vantage runs business health assessments and tracks the resulting
action plan on a kanban board.

Run without arguments to start the interactive interface.`,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return o.load(cmd) },
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return o.close()
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var route app.Route
			switch {
			case invToken != "":
				route = app.Route{Screen: types.ScreenInvite, Token: invToken}
			case verifyToken != "":
				route = app.Route{Screen: types.ScreenVerify, Token: verifyToken}
			}
			return RunTUI(cmd.Context(), o.deps, route)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "config file (default .vantage.json or ~/.vantage/config.json)")
	pf.StringVar(&o.apiURL, "api-url", "", "backend origin, overrides the config file")
	pf.StringVar(&o.env, "env", "", "named environment from the config file")
	root.Flags().StringVar(&invToken, "invite", "", "open the invitation screen for this token")
	root.Flags().StringVar(&verifyToken, "verify", "", "verify an email address in the interface")

	root.AddCommand(
		newOpenCommand(o),
		newLoginCommand(o),
		newLogoutCommand(o),
		newWhoamiCommand(o),
		newTasksCommand(o),
		newVerifyCommand(o),
		newInviteCommand(o),
		newDoctorCommand(o),
	)
	return root
}

func newOpenCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "open <link>",
		Short:   "Start the interface from a link in a Vantage email",
		Example: "  vantage open 'https://app.vantage.io/accept-invitation?token=abc123'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			route, err := app.ParseLink(args[0])
			if err != nil {
				return err
			}
			return RunTUI(cmd.Context(), o.deps, route)
		},
	}
}

func newLoginCommand(o *options) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return LoginCommand(cmd.Context(), o.deps, email, password)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (prompted when empty)")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	return cmd
}

func newLogoutCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return LogoutCommand(cmd.Context(), o.deps)
		},
	}
}

func newWhoamiCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return WhoamiCommand(cmd.Context(), o.deps)
		},
	}
}

func newTasksCommand(o *options) *cobra.Command {
	var column string
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the action plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return TasksCommand(cmd.Context(), o.deps, column)
		},
	}
	cmd.Flags().StringVarP(&column, "column", "c", "", "only this column: todo, in_progress or completed")
	return cmd
}

func newVerifyCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <token>",
		Short: "Verify an email address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return VerifyCommand(cmd.Context(), o.deps, args[0])
		},
	}
}

func newInviteCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Team invitations",
	}

	var form invite.Submit
	accept := &cobra.Command{
		Use:   "accept <token>",
		Short: "Join a team with an invitation token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return AcceptInviteCommand(cmd.Context(), o.deps, args[0], form)
		},
	}
	f := accept.Flags()
	f.StringVar(&form.FirstName, "first-name", "", "your first name")
	f.StringVar(&form.LastName, "last-name", "", "your last name")
	f.StringVar(&form.Password, "password", "", "new account password (prompted when empty)")
	f.StringVar(&form.ConfirmPassword, "confirm-password", "", "repeat the password (defaults to --password)")

	cmd.AddCommand(accept)
	return cmd
}

func newDoctorCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the connection to the backend and the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return DoctorCommand(cmd.Context(), o.deps)
		},
	}
}

// RunTUI starts the interactive interface on route and blocks until it exits
func RunTUI(ctx context.Context, deps *Dependencies, route app.Route) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	deps.refresh(ctx)

	cfg := deps.Config
	model := app.New(app.Deps{
		Config:   cfg,
		Client:   deps.Client,
		Store:    deps.Store,
		Attacher: deps.Attachments,
		Logger:   deps.Logger,
		Route:    route,
	})

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if !cfg.UI.Inline {
		opts = append(opts, tea.WithAltScreen())
	}
	if f, ok := deps.In.(*os.File); ok {
		opts = append(opts, tea.WithInput(f))
	}
	if deps.Out != nil && deps.Out != io.Writer(os.Stdout) {
		opts = append(opts, tea.WithOutput(deps.Out))
	}
	p := tea.NewProgram(model, opts...)

	checker := network.NewStatusChecker(deps.Client)
	interval := time.Duration(cfg.Network.CheckInterval) * time.Second
	go checker.StartMonitoring(ctx, p, interval)

	deps.Logger.Info("starting interface", "api", cfg.API.BaseURL, "screen", route.Screen)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run interface: %w", err)
	}
	return nil
}
