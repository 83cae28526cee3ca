package client

import "errors"

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRequiresRecentLogin is returned by DeleteAccount when the session's
	// sign-in is too old. Reauthenticate and retry.
	ErrRequiresRecentLogin = errors.New("requires recent login")

	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrAlreadyExists    = errors.New("already exists")
	ErrInvalidArgument  = errors.New("invalid argument")
)
