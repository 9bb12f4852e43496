// Package api is the REST client for the diagnostic backend: one method per
// endpoint, bearer authentication and a single error shape.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/riordanpawley/vantage/internal/domain"
)

// BasePath is prefixed to every endpoint path
const BasePath = "/api"

// maxErrorBody bounds how much of an error response is read
const maxErrorBody = 64 << 10

// HTTPDoer is the subset of *http.Client the API client needs
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the backend REST API
type Client struct {
	baseURL string
	http    HTTPDoer
	logger  *slog.Logger
}

// NewClient creates a new API client. A nil httpClient uses a client with the
// given timeout.
func NewClient(baseURL string, httpClient HTTPDoer, timeout time.Duration, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// BaseURL returns the configured backend origin
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call describes one endpoint invocation
type call struct {
	op       string // operation name used in errors and logs
	method   string
	path     string
	query    url.Values
	token    string
	body     any
	fallback string // message used when the error body has none

	// raw body, used for multipart uploads
	rawBody     io.Reader
	contentType string
}

// errorBody is the shape the backend uses for failures
type errorBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Error   string `json:"error"`
	Data    *struct {
		IsOwner          bool `json:"is_owner"`
		IsTeamMemberOnly bool `json:"is_team_member_only"`
	} `json:"data"`
}

func (b errorBody) text() string {
	switch {
	case b.Message != "":
		return b.Message
	case b.Detail != "":
		return b.Detail
	default:
		return b.Error
	}
}

// do issues the request and decodes a successful JSON body into out
func (c *Client) do(ctx context.Context, cl call, out any) error {
	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return &domain.APIError{Op: cl.op, Message: cl.fallback, Err: err}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "op", cl.op, "method", cl.method, "path", cl.path, "error", err)
		return &domain.APIError{Op: cl.op, Message: cl.fallback, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		"op", cl.op,
		"method", cl.method,
		"path", cl.path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", req.Header.Get("X-Request-ID"),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(cl, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.APIError{Op: cl.op, Status: resp.StatusCode, Message: cl.fallback, Err: err}
	}
	// an empty 2xx body leaves out untouched
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := sonic.ConfigStd.Unmarshal(data, out); err != nil {
		return &domain.APIError{Op: cl.op, Status: resp.StatusCode, Message: "Unexpected response from server", Err: err}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	u := c.baseURL + BasePath + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	body := cl.rawBody
	contentType := cl.contentType
	if body == nil && cl.body != nil {
		data, err := sonic.ConfigStd.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}
	return req, nil
}

func (c *Client) decodeError(cl call, resp *http.Response) error {
	apiErr := &domain.APIError{Op: cl.op, Status: resp.StatusCode, Message: cl.fallback}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var body errorBody
	if err := sonic.ConfigStd.Unmarshal(data, &body); err != nil {
		c.logger.Debug("unparseable error body", "op", cl.op, "status", resp.StatusCode)
		return apiErr
	}
	if msg := strings.TrimSpace(body.text()); msg != "" {
		apiErr.Message = msg
	}
	if body.Data != nil {
		apiErr.IsOwner = body.Data.IsOwner
		apiErr.IsTeamMemberOnly = body.Data.IsTeamMemberOnly
	}
	return apiErr
}
