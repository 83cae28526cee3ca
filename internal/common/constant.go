// Package common contains shared constants and sentinel errors used across
// NoteKeeper components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// Sign-in provider identifiers as reported in an identity's provider list.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google.com"
)

// MinPasswordLength is the shortest password accepted for sign-up and login.
const MinPasswordLength = 6
