package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/mosaicms/go-admin-client/token"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func TestParseClaims(t *testing.T) {
	now := fixedNow()

	raw := signedToken(t, jwt.MapClaims{
		"email": "jane@example.com",
		"role":  "editor",
		"rbac":  true,
		"exp":   now.Add(10 * time.Minute).Unix(),
		"roles": []map[string]string{
			{"id": "r1", "name": "editor", "description": "Can edit content"},
			{"id": "r2", "name": "publisher"},
		},
	})

	claims := token.ParseClaims(raw, now)
	require.False(t, claims.Malformed)
	require.False(t, claims.Expired)
	require.Equal(t, "jane@example.com", claims.Subject)
	require.Equal(t, "editor", claims.Role)
	require.True(t, claims.RBACEnabled)
	require.Len(t, claims.Roles, 2)
	require.Equal(t, "r1", claims.Roles[0].ID)
	require.Equal(t, "Can edit content", claims.Roles[0].Description)
}

func TestParseClaimsExpiredToken(t *testing.T) {
	now := fixedNow()

	raw := signedToken(t, jwt.MapClaims{
		"sub": "jane@example.com",
		"exp": now.Add(-time.Minute).Unix(),
	})

	claims := token.ParseClaims(raw, now)
	require.False(t, claims.Malformed)
	require.True(t, claims.Expired)
	require.Equal(t, "jane@example.com", claims.Subject, "sub is the fallback subject claim")
}

func TestParseClaimsMalformed(t *testing.T) {
	now := fixedNow()

	for _, raw := range []string{"", "garbage", "a.b", "x.y.z"} {
		claims := token.ParseClaims(raw, now)
		require.True(t, claims.Malformed, "input %q", raw)
		require.True(t, claims.Expired, "malformed tokens must read as expired")
		require.Empty(t, claims.Roles)
	}
}

func TestParseClaimsMissingExpiry(t *testing.T) {
	now := fixedNow()

	raw := signedToken(t, jwt.MapClaims{"email": "jane@example.com"})

	claims := token.ParseClaims(raw, now)
	require.False(t, claims.Malformed)
	require.True(t, claims.Expired, "a token without exp cannot be trusted")
}
