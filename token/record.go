// Package token owns the persisted token pair and the pure lifecycle queries
// over it. Nothing here talks to the network: the refresh protocol lives in
// token/refresh and the HTTP plumbing in api.
package token

import "time"

// Record is the persisted session credential set. ExpiresAt is always written
// together with AccessToken; an empty AccessToken means "no session". A zero
// ExpiresAt on a non-empty token (the legacy-key migration case) counts as
// expired.
type Record struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// HasSession reports whether the record holds an access token at all,
// regardless of expiry.
func (r Record) HasSession() bool {
	return r.AccessToken != ""
}
