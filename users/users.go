package users

// Role is a role record as the backend reports it, both inside access token
// claims and in the profile response.
type Role struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Profile is the authenticated user as returned by GET /auth/profile.
type Profile struct {
	ID          string   `json:"id,omitempty"`
	Email       string   `json:"email,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	Roles       []Role   `json:"roles,omitempty"`
}

// HasPermission reports whether the profile carries the named permission.
func (p Profile) HasPermission(permission string) bool {
	for _, perm := range p.Permissions {
		if perm == permission {
			return true
		}
	}
	return false
}

// HasRole reports whether the profile carries a role with the given name.
func (p Profile) HasRole(name string) bool {
	for _, role := range p.Roles {
		if role.Name == name {
			return true
		}
	}
	return false
}
