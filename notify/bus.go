// Package notify carries the client-emitted session signals: a "tokens
// refreshed" broadcast with the new token pair and an "auth logout" broadcast
// with no payload. Both are fire-and-forget; a slow subscriber drops events
// rather than blocking the auth path.
package notify

import (
	"sync"

	"github.com/mosaicms/go-admin-client/token"
)

const subscriberBuffer = 4

// Bus fans session events out to subscribers.
type Bus struct {
	mu        sync.Mutex
	refreshed []chan token.Record
	loggedOut []chan struct{}
}

func NewBus() *Bus {
	return &Bus{}
}

// SubscribeRefreshed returns a channel receiving every token pair written
// after a successful refresh.
func (b *Bus) SubscribeRefreshed() <-chan token.Record {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan token.Record, subscriberBuffer)
	b.refreshed = append(b.refreshed, ch)
	return ch
}

// SubscribeLoggedOut returns a channel receiving a signal whenever the
// session ends, whether by explicit logout or terminal refresh failure.
func (b *Bus) SubscribeLoggedOut() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan struct{}, subscriberBuffer)
	b.loggedOut = append(b.loggedOut, ch)
	return ch
}

// PublishRefreshed broadcasts a refreshed token pair. Never blocks.
func (b *Bus) PublishRefreshed(record token.Record) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.refreshed {
		select {
		case ch <- record:
		default:
		}
	}
}

// PublishLoggedOut broadcasts the end of the session. Never blocks.
func (b *Bus) PublishLoggedOut() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.loggedOut {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
