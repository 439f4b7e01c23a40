package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mosaicms/go-admin-client/token"
)

func TestIsExpired(t *testing.T) {
	now := fixedNow()

	tests := []struct {
		name    string
		record  token.Record
		expired bool
	}{
		{"no expiry", token.Record{AccessToken: testAccessToken}, true},
		{"just expired", token.Record{AccessToken: testAccessToken, ExpiresAt: now.Add(-time.Millisecond)}, true},
		{"still valid", token.Record{AccessToken: testAccessToken, ExpiresAt: now.Add(time.Minute)}, false},
		{"expires exactly now", token.Record{AccessToken: testAccessToken, ExpiresAt: now}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expired, token.IsExpired(tt.record, now))
		})
	}
}

func TestNeedsRefresh(t *testing.T) {
	now := fixedNow()
	threshold := 5 * time.Minute

	tests := []struct {
		name   string
		record token.Record
		needs  bool
	}{
		{"4 minutes left", token.Record{AccessToken: testAccessToken, ExpiresAt: now.Add(4 * time.Minute)}, true},
		{"10 minutes left", token.Record{AccessToken: testAccessToken, ExpiresAt: now.Add(10 * time.Minute)}, false},
		{"already expired", token.Record{AccessToken: testAccessToken, ExpiresAt: now.Add(-time.Minute)}, true},
		{"no session at all", token.Record{}, false},
		{"migrated token without expiry", token.Record{AccessToken: testAccessToken}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.needs, token.NeedsRefresh(tt.record, now, threshold))
		})
	}
}

func TestEvaluatorValidToken(t *testing.T) {
	store, _ := newTestStore(t)
	evaluator := token.NewEvaluator(store, token.WithEvaluatorNowFunc(fixedNow))

	require.Empty(t, evaluator.ValidToken(), "empty store yields no token")

	store.SetTokens(testAccessToken, testRefreshToken)
	require.Equal(t, testAccessToken, evaluator.ValidToken())

	// Move the clock past the expiry window: the stored token must never
	// be handed out again.
	expired := token.NewEvaluator(store, token.WithEvaluatorNowFunc(func() time.Time {
		return fixedNow().Add(21 * time.Minute)
	}))
	require.Empty(t, expired.ValidToken())
}

func TestEvaluatorShouldRefresh(t *testing.T) {
	store, _ := newTestStore(t)
	evaluator := token.NewEvaluator(store, token.WithEvaluatorNowFunc(fixedNow))

	require.False(t, evaluator.ShouldRefresh(), "no session, nothing to refresh")

	store.SetTokens(testAccessToken, testRefreshToken)
	require.False(t, evaluator.ShouldRefresh(), "20 minutes left, above the threshold")

	later := token.NewEvaluator(store, token.WithEvaluatorNowFunc(func() time.Time {
		return fixedNow().Add(16 * time.Minute)
	}))
	require.True(t, later.ShouldRefresh(), "4 minutes left, under the threshold")
}
