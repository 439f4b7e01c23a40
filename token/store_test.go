package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mosaicms/go-admin-client/token"
	"github.com/mosaicms/go-admin-client/token/memrepo"
)

const (
	testAccessToken  = "access-token-1"
	testRefreshToken = "refresh-token-1"
	testLegacyToken  = "legacy-jwt-token"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newTestStore(t *testing.T) (*token.Store, *memrepo.Repo) {
	t.Helper()

	repo := memrepo.New()
	store := token.NewStore(repo, token.WithNowFunc(fixedNow))
	return store, repo
}

func TestStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	store.SetTokens(testAccessToken, testRefreshToken)

	record := store.Get()
	require.Equal(t, testAccessToken, record.AccessToken)
	require.Equal(t, testRefreshToken, record.RefreshToken)
	require.WithinDuration(t, fixedNow().Add(20*time.Minute), record.ExpiresAt, time.Second)
}

func TestStoreEmptyIsNoSession(t *testing.T) {
	store, _ := newTestStore(t)

	record := store.Get()
	require.False(t, record.HasSession())
	require.Empty(t, record.RefreshToken)
	require.True(t, record.ExpiresAt.IsZero())
}

func TestStorePreservesRefreshTokenWhenNotRotated(t *testing.T) {
	store, _ := newTestStore(t)

	store.SetTokens(testAccessToken, testRefreshToken)
	store.SetTokens("access-token-2", "")

	record := store.Get()
	require.Equal(t, "access-token-2", record.AccessToken)
	require.Equal(t, testRefreshToken, record.RefreshToken)
}

func TestStoreClearIsIdempotent(t *testing.T) {
	store, repo := newTestStore(t)

	store.SetTokens(testAccessToken, testRefreshToken)
	store.Clear()
	store.Clear()

	require.False(t, store.Get().HasSession())
	require.Zero(t, repo.Len())
}

func TestStoreMigratesLegacyKey(t *testing.T) {
	store, repo := newTestStore(t)
	require.NoError(t, repo.Set(token.KeyLegacyToken, testLegacyToken))

	record := store.Get()
	require.Equal(t, testLegacyToken, record.AccessToken)
	// Migrated tokens carry no expiry, so they read as expired and go
	// through refresh on first use.
	require.True(t, record.ExpiresAt.IsZero())

	_, ok, err := repo.Get(token.KeyLegacyToken)
	require.NoError(t, err)
	require.False(t, ok, "legacy key should be deleted after migration")

	// Second read must not re-trigger the migration.
	record = store.Get()
	require.Equal(t, testLegacyToken, record.AccessToken)
}

func TestStorePrefersModernKeyOverLegacy(t *testing.T) {
	store, repo := newTestStore(t)
	store.SetTokens(testAccessToken, testRefreshToken)
	require.NoError(t, repo.Set(token.KeyLegacyToken, testLegacyToken))

	record := store.Get()
	require.Equal(t, testAccessToken, record.AccessToken)

	_, ok, err := repo.Get(token.KeyLegacyToken)
	require.NoError(t, err)
	require.True(t, ok, "legacy key must stay untouched when the modern key is populated")
}
