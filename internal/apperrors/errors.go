package apperrors

import (
	"errors"
	"fmt"
)

// Error taxonomy for the admin client. The split between ErrUnauthorized
// (401, re-authenticate) and ErrForbidden (403, surface to the user, keep
// the session) is a hard contract: no code path may end the session on a 403.
var (
	// Session errors
	ErrNoSession      = errors.New("no session")
	ErrTokenExpired   = errors.New("token expired")
	ErrSessionExpired = errors.New("session expired")

	// Refresh errors
	ErrNoRefreshToken         = errors.New("no refresh token")
	ErrRefreshFailed          = errors.New("token refresh failed")
	ErrInvalidRefreshResponse = errors.New("invalid refresh response")

	// Request errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
