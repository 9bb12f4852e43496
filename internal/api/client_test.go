package api_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/riordanpawley/vantage/internal/api"
	"github.com/riordanpawley/vantage/internal/api/apitest"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newClient(t *testing.T) (*api.Client, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return api.NewClient(srv.URL+"/", nil, 5*time.Second, logger), srv
}

func TestClient_BearerAndRequestID(t *testing.T) {
	client, srv := newClient(t)

	_, err := client.GetProfile(context.Background(), apitest.AccessToken)
	require.NoError(t, err)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/api/users/me", reqs[0].Path)
	assert.Equal(t, "Bearer "+apitest.AccessToken, reqs[0].Authorization)
	_, err = uuid.Parse(reqs[0].RequestID)
	assert.NoError(t, err, "X-Request-ID should be a UUID")
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	client, srv := newClient(t)

	_, err := client.ValidateInvitation(context.Background(), "missing")
	require.Error(t, err)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Empty(t, reqs[0].Authorization)
}

func TestClient_BaseURLTrimmed(t *testing.T) {
	client, srv := newClient(t)
	assert.Equal(t, srv.URL, client.BaseURL())
}

func TestClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"message field", http.StatusBadRequest, `{"message":"Title is too long"}`, "Title is too long"},
		{"detail field", http.StatusBadRequest, `{"detail":"Not allowed here"}`, "Not allowed here"},
		{"error field", http.StatusInternalServerError, `{"error":"boom"}`, "boom"},
		{"empty body uses fallback", http.StatusInternalServerError, ``, "Failed to load profile"},
		{"non-json body uses fallback", http.StatusBadGateway, `<html>bad gateway</html>`, "Failed to load profile"},
		{"blank message uses fallback", http.StatusBadRequest, `{"message":"   "}`, "Failed to load profile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, srv := newClient(t)
			srv.Fail(http.MethodGet, "/api/users/me", tt.status, tt.body)

			_, err := client.GetProfile(context.Background(), apitest.AccessToken)
			require.Error(t, err)

			var apiErr *domain.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.wantMsg, domain.UserMessage(err))
		})
	}
}

func TestClient_StatusSentinels(t *testing.T) {
	client, srv := newClient(t)

	_, err := client.GetProfile(context.Background(), "stale-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = client.GetActionItem(context.Background(), apitest.AccessToken, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	srv.Fail(http.MethodGet, "/api/enterprise", http.StatusForbidden, `{"message":"Owners only"}`)
	_, err = client.GetEnterprise(context.Background(), apitest.AccessToken)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestClient_TeamMemberOnlyDiscriminator(t *testing.T) {
	client, srv := newClient(t)
	srv.Lock()
	srv.Profile.IsOwner = false
	srv.Unlock()

	_, err := client.UpdateEnterprise(context.Background(), apitest.AccessToken, domain.Enterprise{Name: "Acme"})
	require.Error(t, err)

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.True(t, apiErr.IsTeamMemberOnly)
	assert.False(t, apiErr.IsOwner)
}

func TestClient_NoContent(t *testing.T) {
	client, srv := newClient(t)
	srv.SeedBoard(domain.Task{ID: "t1", Title: "Hire CFO", Column: domain.ColumnTodo})

	require.NoError(t, client.DeleteActionItem(context.Background(), apitest.AccessToken, "t1"))
	require.NoError(t, client.Ping(context.Background()))
}

func TestClient_TransportError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := api.NewClient("http://127.0.0.1:1", nil, time.Second, logger)

	_, err := client.Login(context.Background(), domain.Credentials{Email: "a@b.co", Password: "x"})
	require.Error(t, err)

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Zero(t, apiErr.Status)
	assert.NotNil(t, apiErr.Err)
	assert.Equal(t, "Login failed", apiErr.Message)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func TestClient_MalformedSuccessBody(t *testing.T) {
	doer := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"id": 12`)),
			Header:     http.Header{"Content-Type": {"application/json"}},
		}, nil
	})
	client := api.NewClient("http://backend", doer, 0, nil)

	_, err := client.GetProfile(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, "Unexpected response from server", domain.UserMessage(err))
}

func TestClient_SuccessBodies(t *testing.T) {
	respond := func(body string) api.HTTPDoer {
		return roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(body)),
				Header:     http.Header{"Content-Type": {"application/json"}},
			}, nil
		})
	}
	creds := domain.Credentials{Email: "owner@acme.io", Password: "correct-horse"}

	t.Run("truncated login body is an error", func(t *testing.T) {
		client := api.NewClient("http://backend", respond(`{"access": "abc`), 0, nil)

		pair, err := client.Login(context.Background(), creds)

		var apiErr *domain.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusOK, apiErr.Status)
		assert.Empty(t, pair.AccessToken)
	})

	t.Run("empty body leaves the result zero", func(t *testing.T) {
		client := api.NewClient("http://backend", respond("  \n"), 0, nil)

		pair, err := client.Login(context.Background(), creds)

		require.NoError(t, err)
		assert.Equal(t, domain.TokenPair{}, pair)
	})
}

func TestClient_Cancellation(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	srv := apitest.NewServer(t)
	transport := &http.Transport{}
	defer transport.CloseIdleConnections()
	client := api.NewClient(srv.URL, &http.Client{Transport: transport}, 0, nil)
	srv.Hold(http.MethodGet, "/api/action-items/board")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := client.GetBoard(ctx, apitest.AccessToken)
		done <- err
	}()

	require.Eventually(t, func() bool { return srv.RequestCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("request did not return after cancellation")
	}
	srv.ReleaseAll()
	srv.Close()
}
