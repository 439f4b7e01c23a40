package session

import "github.com/mosaicms/go-admin-client/users"

// Status is the controller's position in the
// Unauthenticated → Authenticating → Authenticated machine.
type Status int

const (
	Unauthenticated Status = iota
	Authenticating
	Authenticated
)

func (s Status) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// State is the externally visible authentication state. It is owned
// exclusively by the Controller; consumers receive copies and must treat
// them as read-only snapshots.
type State struct {
	User      *users.Profile
	Status    Status
	IsLoading bool
}

func (s State) IsAuthenticated() bool {
	return s.Status == Authenticated
}
