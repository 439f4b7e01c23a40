package api

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/mosaicms/go-admin-client/internal/apperrors"
	"github.com/mosaicms/go-admin-client/token"
)

// TokenRefresher is the coordinator surface the transport depends on.
type TokenRefresher interface {
	Refresh(ctx context.Context) (token.Record, error)
}

// AuthTransport attaches the current access token to outgoing requests and
// applies the authorization-error policy:
//
//   - 401: one coordinated refresh, then one replay of the original request
//     with the new token. A refresh failure propagates without a replay; a
//     second 401 passes through as a hard authentication failure.
//   - 403: passed through untouched. The token is valid, the user lacks
//     permission; the session is never ended on a 403.
//   - everything else: passed through unchanged.
type AuthTransport struct {
	base      http.RoundTripper
	evaluator *token.Evaluator
	refresher TokenRefresher
}

var _ http.RoundTripper = (*AuthTransport)(nil)

// NewAuthTransport wraps base (http.DefaultTransport when nil).
func NewAuthTransport(evaluator *token.Evaluator, refresher TokenRefresher, base http.RoundTripper) *AuthTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &AuthTransport{
		base:      base,
		evaluator: evaluator,
		refresher: refresher,
	}
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// A missing token is sent bare: the backend answers 401 and the refresh
	// path below takes over.
	resp, err := t.base.RoundTrip(t.authorize(req, t.evaluator.ValidToken()))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	record, refreshErr := t.refresher.Refresh(req.Context())
	if refreshErr != nil {
		drain(resp)
		return nil, apperrors.Wrapf(refreshErr, "%s %s", req.Method, req.URL.Path)
	}
	drain(resp)

	retry := t.authorize(req, record.AccessToken)
	if req.GetBody != nil {
		// The first attempt consumed the body; replay needs a fresh reader.
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, apperrors.Wrapf(bodyErr, "%s %s: rewind body", req.Method, req.URL.Path)
		}
		retry.Body = body
	}
	return t.base.RoundTrip(retry)
}

// authorize clones the request with a bearer credential and a fresh request id.
func (t *AuthTransport) authorize(req *http.Request, accessToken string) *http.Request {
	out := req.Clone(req.Context())
	out.Header.Set("X-Request-Id", uuid.New().String())
	if accessToken != "" {
		out.Header.Set("Authorization", "Bearer "+accessToken)
	}
	return out
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
