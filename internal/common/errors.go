// Package common defines shared constants and sentinel errors used across
// client and server layers of NoteKeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrorUnauthorized     = errors.New("unauthorized")
	ErrorPermissionDenied = errors.New("permission denied")
	ErrorInvalidArgument  = errors.New("invalid argument")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// ErrRequiresRecentLogin is returned for sensitive operations when the
	// session credential is older than the allowed window.
	ErrRequiresRecentLogin = errors.New("requires recent login")

	// ErrNotSignedIn is returned by client operations that need a current user.
	ErrNotSignedIn = errors.New("no user is signed in")
)
