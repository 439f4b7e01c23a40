package notify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mosaicms/go-admin-client/notify"
	"github.com/mosaicms/go-admin-client/token"
)

func TestBusBroadcastsToAllSubscribers(t *testing.T) {
	bus := notify.NewBus()
	first := bus.SubscribeRefreshed()
	second := bus.SubscribeRefreshed()

	record := token.Record{AccessToken: "access-1", ExpiresAt: time.Now().Add(20 * time.Minute)}
	bus.PublishRefreshed(record)

	require.Equal(t, record, <-first)
	require.Equal(t, record, <-second)
}

func TestBusLoggedOutSignal(t *testing.T) {
	bus := notify.NewBus()
	loggedOut := bus.SubscribeLoggedOut()

	bus.PublishLoggedOut()

	select {
	case <-loggedOut:
	case <-time.After(time.Second):
		t.Fatal("expected a logged-out signal")
	}
}

func TestBusNeverBlocksOnSlowSubscriber(t *testing.T) {
	bus := notify.NewBus()
	bus.SubscribeRefreshed()

	// Nobody drains the channel; publishing past the buffer must drop rather
	// than wedge the refresh path.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			bus.PublishRefreshed(token.Record{AccessToken: "access"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestBusPublishWithoutSubscribers(t *testing.T) {
	bus := notify.NewBus()
	bus.PublishRefreshed(token.Record{AccessToken: "access"})
	bus.PublishLoggedOut()
}
