package token

import (
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Store is the sole writer of persisted tokens. It serializes a Record into
// the backing Repo and computes the expiry window on every write.
type Store struct {
	repo     Repo
	lifetime time.Duration
	nowFunc  func() time.Time
	mu       sync.Mutex
}

type StoreOption func(*Store)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowFunc = now
	}
}

// WithLifetime overrides the access token lifetime window.
func WithLifetime(lifetime time.Duration) StoreOption {
	return func(s *Store) {
		s.lifetime = lifetime
	}
}

// NewStore creates a Store over the given repo with a 20 minute access token
// lifetime unless overridden.
func NewStore(repo Repo, options ...StoreOption) *Store {
	s := &Store{
		repo:     repo,
		lifetime: 20 * time.Minute,
		nowFunc:  func() time.Time { return NowTimeFunc() },
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Get reads the persisted record. If only the legacy jwtToken key is present
// it is copied forward to the modern key and then deleted; a populated modern
// key always wins and leaves the legacy key untouched. Storage failures are
// logged and read as "no session".
func (s *Store) Get() Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	access, ok := s.read(KeyAccessToken)
	if !ok {
		if legacy, found := s.read(KeyLegacyToken); found {
			// One-time migration: carry the token forward without inventing
			// an expiry, so its first use goes through refresh.
			if err := s.repo.Set(KeyAccessToken, legacy); err != nil {
				log.Warn().Err(err).Msg("token store: legacy key migration failed")
				return Record{}
			}
			if err := s.repo.Delete(KeyLegacyToken); err != nil {
				log.Warn().Err(err).Msg("token store: legacy key delete failed")
			}
			access = legacy
		}
	}

	refresh, _ := s.read(KeyRefreshToken)

	var expiresAt time.Time
	if raw, found := s.read(KeyExpiresAt); found {
		if millis, err := strconv.ParseInt(raw, 10, 64); err == nil {
			expiresAt = time.UnixMilli(millis)
		}
	}

	return Record{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}
}

// SetTokens writes the access token with expiresAt = now + lifetime. An empty
// refreshToken preserves the stored one: a refresh response without a rotated
// refresh token keeps the session refreshable.
func (s *Store) SetTokens(accessToken, refreshToken string) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := s.nowFunc().Add(s.lifetime)

	if err := s.repo.Set(KeyAccessToken, accessToken); err != nil {
		log.Warn().Err(err).Msg("token store: access token write failed")
	}
	if err := s.repo.Set(KeyExpiresAt, strconv.FormatInt(expiresAt.UnixMilli(), 10)); err != nil {
		log.Warn().Err(err).Msg("token store: expiry write failed")
	}
	if refreshToken != "" {
		if err := s.repo.Set(KeyRefreshToken, refreshToken); err != nil {
			log.Warn().Err(err).Msg("token store: refresh token write failed")
		}
	} else {
		refreshToken, _ = s.read(KeyRefreshToken)
	}

	return Record{AccessToken: accessToken, RefreshToken: refreshToken, ExpiresAt: expiresAt}
}

// Clear removes every stored key, including the legacy one. Safe to call
// repeatedly.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyExpiresAt, KeyLegacyToken} {
		if err := s.repo.Delete(key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("token store: delete failed")
		}
	}
}

func (s *Store) read(key string) (string, bool) {
	value, ok, err := s.repo.Get(key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("token store: read failed")
		return "", false
	}
	return value, ok
}
