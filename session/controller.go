// Package session orchestrates login, profile loading, and logout, and owns
// the authentication state the rest of the application consumes.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mosaicms/go-admin-client/api"
	"github.com/mosaicms/go-admin-client/internal/apperrors"
	"github.com/mosaicms/go-admin-client/notify"
	"github.com/mosaicms/go-admin-client/token"
	"github.com/mosaicms/go-admin-client/users"
)

// Backend is the slice of the api client the controller needs.
type Backend interface {
	Login(ctx context.Context, email, password string) (api.LoginResult, error)
	Profile(ctx context.Context) (users.Profile, error)
	Logout(ctx context.Context) error
}

// Refresher is the coordinator surface the controller needs.
type Refresher interface {
	Refresh(ctx context.Context) (token.Record, error)
}

// Scheduler is the background refresh loop the controller starts on login
// and stops when the session ends.
type Scheduler interface {
	Start()
	Stop()
}

// Deps holds all collaborator dependencies for the Controller.
type Deps struct {
	Backend     Backend
	Store       *token.Store
	Evaluator   *token.Evaluator
	Coordinator Refresher
	Scheduler   Scheduler
	Bus         *notify.Bus
}

// Controller is the sole writer of session state. All mutation goes through
// Login, LoadProfile, Logout, or the coordinator's terminal-failure path.
type Controller struct {
	deps Deps

	mu    sync.RWMutex
	state State
}

// NewController initializes a Controller with required dependencies.
func NewController(deps Deps) (*Controller, error) {
	if deps.Backend == nil {
		return nil, errors.New("[NewController] Backend is required")
	}
	if deps.Store == nil {
		return nil, errors.New("[NewController] Store is required")
	}
	if deps.Evaluator == nil {
		return nil, errors.New("[NewController] Evaluator is required")
	}
	if deps.Coordinator == nil {
		return nil, errors.New("[NewController] Coordinator is required")
	}
	if deps.Bus == nil {
		deps.Bus = notify.NewBus()
	}

	return &Controller{deps: deps}, nil
}

// State returns a snapshot of the current session state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := c.state
	if c.state.User != nil {
		user := *c.state.User
		snapshot.User = &user
	}
	return snapshot
}

// Events exposes the session broadcasts (tokens refreshed, logged out).
func (c *Controller) Events() *notify.Bus {
	return c.deps.Bus
}

// Login authenticates against the backend, persists the token pair, loads
// the profile, and starts the background refresh. On failure any partial
// tokens are cleared and the state returns to Unauthenticated.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	c.setState(State{Status: Authenticating, IsLoading: true})

	result, err := c.deps.Backend.Login(ctx, email, password)
	if err != nil {
		c.deps.Store.Clear()
		c.setState(State{Status: Unauthenticated})
		log.Warn().Err(err).Msg("login failed")
		return err
	}

	c.deps.Store.SetTokens(result.AccessToken, result.RefreshToken)

	profile := result.User
	if profile.ID == "" {
		profile, err = c.deps.Backend.Profile(ctx)
		if err != nil {
			c.deps.Store.Clear()
			c.setState(State{Status: Unauthenticated})
			return apperrors.Wrapf(err, "login")
		}
	}

	c.setState(State{Status: Authenticated, User: &profile})
	if c.deps.Scheduler != nil {
		c.deps.Scheduler.Start()
	}
	log.Info().Str("user", profile.Email).Msg("logged in")
	return nil
}

// LoadProfile fetches the profile and permission set. An expired token is
// refreshed first; a 401 on the fetch itself goes through the transport's
// one refresh-and-retry before giving up.
func (c *Controller) LoadProfile(ctx context.Context) (users.Profile, error) {
	if c.deps.Evaluator.ValidToken() == "" {
		if _, err := c.deps.Coordinator.Refresh(ctx); err != nil {
			return users.Profile{}, apperrors.Wrapf(err, "load profile")
		}
	}

	profile, err := c.deps.Backend.Profile(ctx)
	if err != nil {
		return users.Profile{}, err
	}

	c.mu.Lock()
	c.state.Status = Authenticated
	c.state.User = &profile
	c.mu.Unlock()

	return profile, nil
}

// Logout ends the session: best-effort backend notification, scheduler stop,
// token wipe, state reset, "logged out" broadcast. Safe to call repeatedly.
func (c *Controller) Logout(ctx context.Context) {
	if c.deps.Evaluator.ValidToken() != "" {
		if err := c.deps.Backend.Logout(ctx); err != nil {
			log.Debug().Err(err).Msg("backend logout failed")
		}
	}

	if c.deps.Scheduler != nil {
		c.deps.Scheduler.Stop()
	}
	c.deps.Store.Clear()
	c.setState(State{Status: Unauthenticated})
	c.deps.Bus.PublishLoggedOut()
	log.Info().Msg("logged out")
}

// SignIn is an alias for Login kept for interface compatibility.
func (c *Controller) SignIn(ctx context.Context, email, password string) error {
	return c.Login(ctx, email, password)
}

// SignOut is an alias for Logout kept for interface compatibility.
func (c *Controller) SignOut(ctx context.Context) {
	c.Logout(ctx)
}

// HandleTerminalRefreshFailure is the coordinator's terminal-failure hook.
// The store is already cleared by the coordinator; this resets the visible
// state and announces the logout. The scheduler is stopped asynchronously
// because this can run inside the scheduler's own refresh tick.
func (c *Controller) HandleTerminalRefreshFailure() {
	c.setState(State{Status: Unauthenticated})
	c.deps.Bus.PublishLoggedOut()
	if c.deps.Scheduler != nil {
		go c.deps.Scheduler.Stop()
	}
	log.Warn().Msg("session ended after refresh failure")
}

func (c *Controller) setState(state State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = state
}
