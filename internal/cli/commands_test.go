package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/riordanpawley/vantage/internal/api/apitest"
	"github.com/riordanpawley/vantage/internal/config"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/riordanpawley/vantage/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	t       *testing.T
	srv     *apitest.Server
	cfgPath string
	session string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	t.Setenv("VANTAGE_API_URL", "")
	t.Setenv("VANTAGE_LOG_LEVEL", "")

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Session.Path = filepath.Join(dir, "session.json")
	cfg.Log.File = filepath.Join(dir, "vantage.log")
	cfg.Log.Level = "debug"
	path := filepath.Join(dir, "config.json")
	require.NoError(t, config.SaveConfig(cfg, path))

	return &env{t: t, srv: apitest.NewServer(t), cfgPath: path, session: cfg.Session.Path}
}

// run executes the command line with stdin and returns its output
func (e *env) run(stdin string, args ...string) (string, error) {
	e.t.Helper()
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(append([]string{"--config", e.cfgPath, "--api-url", e.srv.URL}, args...))
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *env) stored() session.Session {
	e.t.Helper()
	sess, err := session.NewStore(e.session, nil).Load()
	require.NoError(e.t, err)
	return sess
}

func (e *env) login() {
	e.t.Helper()
	_, err := e.run("", "login", "--email", apitest.Email, "--password", apitest.Password)
	require.NoError(e.t, err)
}

func TestLoginCommand(t *testing.T) {
	t.Run("flags", func(t *testing.T) {
		e := newEnv(t)

		out, err := e.run("", "login", "--email", apitest.Email, "--password", apitest.Password)

		require.NoError(t, err)
		assert.Contains(t, out, "Signed in as "+apitest.Email)
		assert.Equal(t, apitest.AccessToken, e.stored().AccessToken)
	})

	t.Run("prompts for the password", func(t *testing.T) {
		e := newEnv(t)

		out, err := e.run(apitest.Password+"\n", "login", "--email", apitest.Email)

		require.NoError(t, err)
		assert.Contains(t, out, "Password: ")
		assert.True(t, e.stored().Authenticated())
	})

	t.Run("wrong password", func(t *testing.T) {
		e := newEnv(t)

		_, err := e.run("", "login", "--email", apitest.Email, "--password", "nope-nope")

		require.EqualError(t, err, "invalid email or password")
		assert.False(t, e.stored().Authenticated())
	})

	t.Run("malformed email is rejected before any request", func(t *testing.T) {
		e := newEnv(t)

		_, err := e.run("", "login", "--email", "owner@acme", "--password", apitest.Password)

		var valErr *domain.ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "email", valErr.Field)
		assert.Zero(t, e.srv.RequestCount())
	})
}

func TestLogoutCommand(t *testing.T) {
	e := newEnv(t)
	e.login()

	out, err := e.run("", "logout")

	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")
	assert.False(t, e.stored().Authenticated())

	out, err = e.run("", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")
}

func TestWhoamiCommand(t *testing.T) {
	e := newEnv(t)

	_, err := e.run("", "whoami")
	require.ErrorContains(t, err, "not signed in")

	e.login()
	out, err := e.run("", "whoami")

	require.NoError(t, err)
	assert.Contains(t, out, apitest.Email)
	assert.Contains(t, out, "Olivia Owner")
	assert.Contains(t, out, "owner")
}

func TestTasksCommand(t *testing.T) {
	e := newEnv(t)
	e.srv.SeedBoard(
		domain.Task{ID: "t-1", Title: "Write plan", Column: domain.ColumnTodo, Priority: domain.PriorityHigh},
		domain.Task{ID: "t-2", Title: "Audit suppliers", Column: domain.ColumnInProgress, Priority: domain.PriorityLow},
	)
	e.login()

	out, err := e.run("", "tasks")
	require.NoError(t, err)
	assert.Contains(t, out, "Write plan")
	assert.Contains(t, out, "Audit suppliers")
	assert.Contains(t, out, "2 actions")

	out, err = e.run("", "tasks", "--column", "in-progress")
	require.NoError(t, err)
	assert.NotContains(t, out, "Write plan")
	assert.Contains(t, out, "1 actions")
	reqs := e.srv.Requests()
	assert.Equal(t, "/api/action-items", reqs[len(reqs)-1].Path, "a single column is listed, not the whole board")

	_, err = e.run("", "tasks", "-c", "done")
	require.ErrorContains(t, err, `unknown column "done"`)
}

func TestExpiredSessionIsRefreshed(t *testing.T) {
	e := newEnv(t)
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": apitest.Email,
		"exp":   float64(time.Now().Add(-time.Hour).Unix()),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	require.NoError(t, session.NewStore(e.session, nil).Save(session.Session{AccessToken: expired, RefreshToken: apitest.RefreshToken}))

	out, err := e.run("", "whoami")

	require.NoError(t, err)
	assert.Contains(t, out, "Olivia Owner")
	assert.Equal(t, apitest.AccessToken, e.stored().AccessToken)
	assert.Equal(t, apitest.RefreshToken, e.stored().RefreshToken, "a pair without a new refresh token keeps the old one")
}

func TestVerifyCommand(t *testing.T) {
	e := newEnv(t)

	out, err := e.run("", "verify", "abc")
	require.NoError(t, err)
	assert.Contains(t, out, "Email verified")

	_, err = e.run("", "verify", "expired")
	require.ErrorContains(t, err, "Verification link expired")
}

func TestInviteAcceptCommand(t *testing.T) {
	t.Run("accepts and signs in", func(t *testing.T) {
		e := newEnv(t)
		e.srv.Invitations["inv-1"] = domain.InvitationInfo{EnterpriseName: "Acme", Email: "sam@acme.io"}

		out, err := e.run("", "invite", "accept", "inv-1", "--first-name", "Sam", "--password", "long-enough")

		require.NoError(t, err)
		assert.Contains(t, out, "Invitation to Acme for sam@acme.io")
		assert.Contains(t, out, "Welcome to Acme!")
		assert.Equal(t, apitest.AccessToken, e.stored().AccessToken)
	})

	t.Run("password mismatch is not sent", func(t *testing.T) {
		e := newEnv(t)
		e.srv.Invitations["inv-1"] = domain.InvitationInfo{EnterpriseName: "Acme", Email: "sam@acme.io"}

		_, err := e.run("", "invite", "accept", "inv-1", "--password", "long-enough", "--confirm-password", "different!")

		require.ErrorContains(t, err, "Passwords do not match")
		assert.Contains(t, e.srv.Invitations, "inv-1")
	})

	t.Run("unknown token", func(t *testing.T) {
		e := newEnv(t)

		_, err := e.run("", "invite", "accept", "missing", "--password", "long-enough")

		require.EqualError(t, err, "Invitation not found or expired")
	})
}

func TestConfigErrors(t *testing.T) {
	e := newEnv(t)

	_, err := e.run("", "--env", "staging", "whoami")
	require.ErrorContains(t, err, `unknown environment "staging"`)
}

func TestDoctorCommand(t *testing.T) {
	e := newEnv(t)

	out, err := e.run("", "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "Status: DEGRADED")
	assert.Contains(t, out, "Not signed in")

	e.login()
	out, err = e.run("", "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "Status: HEALTHY")
	assert.Contains(t, out, "Accepted by the server")

	e.srv.Close()
	out, err = e.run("", "doctor")
	require.ErrorContains(t, err, "problem(s) found")
	assert.Contains(t, out, "Offline")
}
