package config

import "time"

type AuthConfig interface {
	GetAccessTokenLifetime() time.Duration
	GetRefreshThreshold() time.Duration
	GetSchedulerInterval() time.Duration
	GetHTTPTimeout() time.Duration
}

type Auth struct{}

var _ AuthConfig = Auth{}

// GetAccessTokenLifetime is the window written alongside every stored access
// token. The backend does not echo an expiry, so the client owns this value.
func (Auth) GetAccessTokenLifetime() time.Duration {
	return 20 * time.Minute
}

// GetRefreshThreshold must stay strictly smaller than the access token
// lifetime so the scheduler fires before hard expiry.
func (Auth) GetRefreshThreshold() time.Duration {
	return 5 * time.Minute
}

func (Auth) GetSchedulerInterval() time.Duration {
	return 60 * time.Second
}

func (Auth) GetHTTPTimeout() time.Duration {
	return 15 * time.Second
}
