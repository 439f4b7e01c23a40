package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mosaicms/go-admin-client/users"
)

// Claims is the payload decoded from an access token. The decode is
// unverified: the backend signs tokens and the client holds no keys, so the
// payload is advisory (display, role gating) and never an authorization
// decision by itself.
//
// Malformed input yields Claims{Malformed: true, Expired: true} with empty
// roles instead of an error, so callers treat unparsable tokens exactly like
// expired ones.
type Claims struct {
	ExpiresAt   time.Time
	Subject     string
	Role        string // legacy single-role claim, kept for older tokens
	Roles       []users.Role
	RBACEnabled bool
	Expired     bool
	Malformed   bool
}

// ParseClaims decodes the token payload without signature verification.
func ParseClaims(raw string, now time.Time) Claims {
	malformed := Claims{Malformed: true, Expired: true}

	if raw == "" {
		return malformed
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return malformed
	}
	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return malformed
	}

	claims := Claims{}

	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}
	claims.Expired = claims.ExpiresAt.IsZero() || now.After(claims.ExpiresAt)

	claims.Subject, _ = mapClaims["email"].(string)
	if claims.Subject == "" {
		claims.Subject, _ = mapClaims["sub"].(string)
	}
	claims.Role, _ = mapClaims["role"].(string)
	claims.RBACEnabled, _ = mapClaims["rbac"].(bool)

	if rawRoles, ok := mapClaims["roles"].([]interface{}); ok {
		claims.Roles = roleClaims(rawRoles)
	}

	return claims
}

func roleClaims(rawRoles []interface{}) []users.Role {
	roles := make([]users.Role, 0, len(rawRoles))
	for _, raw := range rawRoles {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		role := users.Role{}
		role.ID, _ = entry["id"].(string)
		role.Name, _ = entry["name"].(string)
		role.Description, _ = entry["description"].(string)
		if role.ID == "" && role.Name == "" {
			continue
		}
		roles = append(roles, role)
	}
	return roles
}
