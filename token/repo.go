package token

// Storage keys. The jwtToken key is read once for migration from older
// deployments and deleted afterwards.
const (
	KeyAccessToken  = "auth_token"
	KeyRefreshToken = "refresh_token"
	KeyExpiresAt    = "token_expires_at"
	KeyLegacyToken  = "jwtToken"
)

// Repo is the client-scoped key-value storage the Store persists into.
// Implementations must be safe for concurrent use. Get reports absence via
// ok=false, not an error; errors are reserved for storage-level failures,
// which the Store degrades to "no session".
type Repo interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}
