// Package exitcode defines exit codes for the CLI and maps errors onto them.
package exitcode

import (
	"errors"

	"taskboard/internal/service"
)

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task, missing title).
	UserError = 1

	// AuthError indicates an auth/config error.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3
)

// FromError returns the exit code for err. Unrecognized errors are
// treated as backend errors.
func FromError(err error) int {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, service.ErrSignedOut),
		errors.Is(err, service.ErrPermission),
		errors.Is(err, service.ErrInvalidCredentials):
		return AuthError
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrWeakPassword):
		return UserError
	default:
		return BackendError
	}
}
