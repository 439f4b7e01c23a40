// Package api is the REST client for the admin backend's auth endpoints plus
// the authenticated transport every other backend call goes through.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	retry "github.com/appleboy/go-httpretry"

	"github.com/mosaicms/go-admin-client/internal/apperrors"
	"github.com/mosaicms/go-admin-client/users"
)

const (
	RouteLogin   = "/auth/login"
	RouteRefresh = "/auth/refresh"
	RouteProfile = "/auth/profile"
	RouteLogout  = "/auth/logout"
)

const contentTypeJSON = "application/json"

// Error is a structured backend error: the HTTP status plus the parsed
// {error, error_description} body when the backend sent one.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend returned %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// Unwrap maps the authorization statuses onto the client's sentinels so that
// errors.Is(err, apperrors.ErrForbidden) works across the codebase.
func (e *Error) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return apperrors.ErrUnauthorized
	case http.StatusForbidden:
		return apperrors.ErrForbidden
	default:
		return nil
	}
}

type errorBody struct {
	Code    string `json:"error"`
	Message string `json:"error_description"`
}

// LoginResult is the response of POST /auth/login.
type LoginResult struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         users.Profile `json:"user"`
}

// Client talks to the backend. Auth endpoints (login/refresh) go out on the
// bare retrying client; resource endpoints go through the auth transport
// installed with UseAuth, so a refresh call can never recurse into itself.
type Client struct {
	baseURL string
	timeout time.Duration
	bare    *retry.Client
	authed  *retry.Client
}

type ClientOption func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func NewClient(baseURL string, options ...ClientOption) (*Client, error) {
	c := &Client{
		baseURL: baseURL,
		timeout: 15 * time.Second,
	}
	for _, opt := range options {
		opt(c)
	}

	bare, err := retry.NewBackgroundClient(
		retry.WithHTTPClient(&http.Client{Timeout: c.timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("create retry client: %w", err)
	}
	c.bare = bare
	return c, nil
}

// UseAuth installs the transport for authenticated calls. Must be wired
// before Profile or Logout are used.
func (c *Client) UseAuth(transport http.RoundTripper) error {
	authed, err := retry.NewBackgroundClient(
		retry.WithHTTPClient(&http.Client{Timeout: c.timeout, Transport: transport}),
	)
	if err != nil {
		return fmt.Errorf("create authed retry client: %w", err)
	}
	c.authed = authed
	return nil
}

// Login exchanges credentials for a token pair and the user profile.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var result LoginResult
	body := map[string]string{"email": email, "password": password}

	if err := c.do(ctx, c.bare, http.MethodPost, RouteLogin, body, &result); err != nil {
		if apperrors.Is(err, apperrors.ErrUnauthorized) {
			return LoginResult{}, apperrors.Wrapf(apperrors.ErrInvalidCredentials, "login")
		}
		return LoginResult{}, apperrors.Wrapf(err, "login")
	}
	if result.AccessToken == "" {
		return LoginResult{}, errors.New("login response missing access token")
	}
	return result, nil
}

// RefreshTokens implements refresh.Refresher. A 2xx response without an
// access token is reported as ErrInvalidRefreshResponse, distinguishable in
// logs from plain network or status failures.
func (c *Client) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	var result struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	body := map[string]string{"refresh_token": refreshToken}

	if err := c.do(ctx, c.bare, http.MethodPost, RouteRefresh, body, &result); err != nil {
		return "", "", apperrors.Wrapf(err, "refresh call")
	}
	if result.AccessToken == "" {
		return "", "", apperrors.ErrInvalidRefreshResponse
	}
	return result.AccessToken, result.RefreshToken, nil
}

// Profile fetches the authenticated user. A surviving 401 (after the
// transport's one refresh-and-retry) surfaces as ErrUnauthorized; 403 as
// ErrForbidden without any session side effects.
func (c *Client) Profile(ctx context.Context) (users.Profile, error) {
	var profile users.Profile
	if err := c.do(ctx, c.authed, http.MethodGet, RouteProfile, nil, &profile); err != nil {
		return users.Profile{}, apperrors.Wrapf(err, "profile")
	}
	return profile, nil
}

// Logout tells the backend to drop the session. Callers treat failures as
// best-effort.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, c.authed, http.MethodPost, RouteLogout, nil, nil); err != nil {
		return apperrors.Wrapf(err, "logout")
	}
	return nil
}

func (c *Client) do(ctx context.Context, client *retry.Client, method, path string, body, out any) error {
	if client == nil {
		return fmt.Errorf("%s %s: auth transport not configured", method, path)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	resp, err := client.DoWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var parsed errorBody
		if json.Unmarshal(data, &parsed) == nil {
			apiErr.Code = parsed.Code
			apiErr.Message = parsed.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
