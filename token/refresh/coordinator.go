// Package refresh coordinates access token renewal. The Coordinator is the
// only component allowed to initiate a refresh call, and it guarantees at
// most one in-flight refresh regardless of how many callers ask concurrently.
package refresh

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/mosaicms/go-admin-client/internal/apperrors"
	"github.com/mosaicms/go-admin-client/notify"
	"github.com/mosaicms/go-admin-client/token"
)

const refreshKey = "refresh"

// Refresher performs the backend refresh call. An empty newRefreshToken means
// the backend did not rotate the refresh token.
type Refresher interface {
	RefreshTokens(ctx context.Context, refreshToken string) (accessToken, newRefreshToken string, err error)
}

// Coordinator serializes refreshes: callers that arrive while one is in
// flight wait for and share its outcome instead of issuing their own network
// call. Any terminal failure clears the store and fires the terminal-failure
// handler exactly once per failed refresh cycle.
type Coordinator struct {
	store     *token.Store
	refresher Refresher
	group     singleflight.Group
	bus       *notify.Bus
	onFailure func()
}

type CoordinatorOption func(*Coordinator)

// WithBus wires the "tokens refreshed" broadcast.
func WithBus(bus *notify.Bus) CoordinatorOption {
	return func(c *Coordinator) {
		c.bus = bus
	}
}

// WithTerminalFailureHandler registers the hook invoked when a refresh fails
// for good. The session controller uses it to drive its logout path.
func WithTerminalFailureHandler(handler func()) CoordinatorOption {
	return func(c *Coordinator) {
		c.onFailure = handler
	}
}

func NewCoordinator(store *token.Store, refresher Refresher, options ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		store:     store,
		refresher: refresher,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Refresh obtains a fresh token pair, joining an in-flight refresh when one
// exists. Every waiter receives the same record or the same error.
func (c *Coordinator) Refresh(ctx context.Context) (token.Record, error) {
	// The shared call must not die with whichever waiter happened to start
	// it; the transport timeout bounds a hung refresh instead.
	callCtx := context.WithoutCancel(ctx)

	result, err, _ := c.group.Do(refreshKey, func() (interface{}, error) {
		record, refreshErr := c.doRefresh(callCtx)
		if refreshErr != nil {
			return nil, refreshErr
		}
		return record, nil
	})
	if err != nil {
		return token.Record{}, err
	}
	return result.(token.Record), nil
}

func (c *Coordinator) doRefresh(ctx context.Context) (token.Record, error) {
	refreshToken := c.store.Get().RefreshToken
	if refreshToken == "" {
		log.Warn().Msg("refresh requested without a refresh token")
		c.terminate()
		return token.Record{}, apperrors.ErrNoRefreshToken
	}

	accessToken, newRefreshToken, err := c.refresher.RefreshTokens(ctx, refreshToken)
	if err != nil {
		// ErrInvalidRefreshResponse stays distinguishable here; both paths
		// are terminal for the session.
		log.Error().Err(err).Msg("token refresh failed")
		c.terminate()
		return token.Record{}, apperrors.Wrapf(err, "refresh")
	}

	record := c.store.SetTokens(accessToken, newRefreshToken)
	if c.bus != nil {
		c.bus.PublishRefreshed(record)
	}
	log.Debug().Time("expires_at", record.ExpiresAt).Msg("tokens refreshed")
	return record, nil
}

func (c *Coordinator) terminate() {
	c.store.Clear()
	if c.onFailure != nil {
		c.onFailure()
	}
}
