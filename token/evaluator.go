package token

import "time"

// IsExpired reports whether the record's access token is past its expiry.
// A missing expiry counts as expired: expiresAt is only ever written together
// with the access token, so its absence means the token cannot be trusted.
func IsExpired(record Record, now time.Time) bool {
	if record.ExpiresAt.IsZero() {
		return true
	}
	return now.After(record.ExpiresAt)
}

// NeedsRefresh reports whether the remaining lifetime has dropped below the
// proactive-refresh threshold. An already-expired record needs a refresh too.
func NeedsRefresh(record Record, now time.Time, threshold time.Duration) bool {
	if !record.HasSession() && record.RefreshToken == "" {
		return false
	}
	if record.ExpiresAt.IsZero() {
		return record.HasSession() || record.RefreshToken != ""
	}
	return record.ExpiresAt.Sub(now) < threshold
}

// Evaluator answers time-dependent lifecycle questions against the Store.
// It is the only accessor other components may use to read "the current
// token": ValidToken never hands out a token that is time-expired.
type Evaluator struct {
	store            *Store
	refreshThreshold time.Duration
	nowFunc          func() time.Time
}

type EvaluatorOption func(*Evaluator)

// WithEvaluatorNowFunc sets the now time function (primarily for testing)
func WithEvaluatorNowFunc(now func() time.Time) EvaluatorOption {
	return func(e *Evaluator) {
		e.nowFunc = now
	}
}

// WithRefreshThreshold overrides the proactive-refresh threshold. It must
// stay strictly smaller than the store's token lifetime.
func WithRefreshThreshold(threshold time.Duration) EvaluatorOption {
	return func(e *Evaluator) {
		e.refreshThreshold = threshold
	}
}

func NewEvaluator(store *Store, options ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		store:            store,
		refreshThreshold: 5 * time.Minute,
		nowFunc:          func() time.Time { return NowTimeFunc() },
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// ValidToken returns the stored access token only while it is unexpired,
// otherwise "".
func (e *Evaluator) ValidToken() string {
	record := e.store.Get()
	if !record.HasSession() || IsExpired(record, e.nowFunc()) {
		return ""
	}
	return record.AccessToken
}

// ShouldRefresh reports whether the stored record is close enough to expiry
// for a proactive refresh.
func (e *Evaluator) ShouldRefresh() bool {
	return NeedsRefresh(e.store.Get(), e.nowFunc(), e.refreshThreshold)
}

// Claims decodes the stored access token's payload.
func (e *Evaluator) Claims() Claims {
	return ParseClaims(e.store.Get().AccessToken, e.nowFunc())
}
