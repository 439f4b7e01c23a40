package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mosaicms/go-admin-client/token"
)

// Scheduler proactively refreshes tokens for idle sessions so the next
// user-triggered request does not run into a 401. It only ever goes through
// the Coordinator, so user-triggered and scheduled refreshes share the same
// single-flight.
type Scheduler struct {
	coordinator *Coordinator
	evaluator   *token.Evaluator
	interval    time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

type SchedulerOption func(*Scheduler)

// WithInterval overrides the check interval (primarily for testing).
func WithInterval(interval time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.interval = interval
	}
}

func NewScheduler(coordinator *Coordinator, evaluator *token.Evaluator, options ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		coordinator: coordinator,
		evaluator:   evaluator,
		interval:    60 * time.Second,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Start launches the recurring check. Starting while already running stops
// the previous timer first, so there is never more than one.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go s.run(ctx, done)
}

// Stop halts the scheduler and waits for the loop to exit. Idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.evaluator.ShouldRefresh() {
				continue
			}
			if _, err := s.coordinator.Refresh(ctx); err != nil {
				// No immediate retry: a terminal failure has already ended
				// the session and the controller will stop this scheduler.
				log.Warn().Err(err).Msg("background refresh failed")
			}
		}
	}
}
