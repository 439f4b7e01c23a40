package session

import (
	"fmt"

	"github.com/mosaicms/go-admin-client/api"
	"github.com/mosaicms/go-admin-client/internal/config"
	"github.com/mosaicms/go-admin-client/notify"
	"github.com/mosaicms/go-admin-client/token"
	"github.com/mosaicms/go-admin-client/token/refresh"
)

// New wires the full session stack over the given storage repo: store,
// evaluator, api client, single-flight coordinator, auth transport, and
// background scheduler. The layering is strict: the store and evaluator know
// nothing above them, the coordinator knows only the store and the refresh
// endpoint, and the transport and scheduler sit on the coordinator.
func New(cfg config.Config, repo token.Repo) (*Controller, error) {
	bus := notify.NewBus()

	store := token.NewStore(repo, token.WithLifetime(cfg.GetAccessTokenLifetime()))
	evaluator := token.NewEvaluator(store, token.WithRefreshThreshold(cfg.GetRefreshThreshold()))

	client, err := api.NewClient(cfg.GetBaseURL(), api.WithTimeout(cfg.GetHTTPTimeout()))
	if err != nil {
		return nil, fmt.Errorf("session.New api client: %w", err)
	}

	// Coordinator and Scheduler are attached after construction: they need
	// the controller's terminal-failure hook.
	controller := &Controller{deps: Deps{
		Backend:   client,
		Store:     store,
		Evaluator: evaluator,
		Bus:       bus,
	}}

	coordinator := refresh.NewCoordinator(store, client,
		refresh.WithBus(bus),
		refresh.WithTerminalFailureHandler(controller.HandleTerminalRefreshFailure),
	)
	scheduler := refresh.NewScheduler(coordinator, evaluator,
		refresh.WithInterval(cfg.GetSchedulerInterval()),
	)

	if err := client.UseAuth(api.NewAuthTransport(evaluator, coordinator, nil)); err != nil {
		return nil, fmt.Errorf("session.New auth transport: %w", err)
	}

	controller.deps.Coordinator = coordinator
	controller.deps.Scheduler = scheduler
	return controller, nil
}
