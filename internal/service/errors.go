package service

import "errors"

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSignedOut is returned when an operation needs a signed-in user.
	ErrSignedOut = errors.New("not logged in (run: taskboard login)")

	// ErrInvalidCredentials is returned when sign-in is rejected.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailExists is returned when signing up with a registered email.
	ErrEmailExists = errors.New("email already registered")

	// ErrWeakPassword is returned when sign-up rejects the password.
	ErrWeakPassword = errors.New("weak password")

	// ErrPermission is returned when the backend refuses the caller.
	ErrPermission = errors.New("permission denied (run: taskboard login)")

	// ErrTimeout is returned when a backend call exceeds its deadline.
	ErrTimeout = errors.New("request timed out")
)
