package models

import "time"

// RefreshToken is a server-stored, single-use refresh credential. AuthTime is
// copied into every access token minted from it.
type RefreshToken struct {
	Token     string
	UserID    string
	AuthTime  time.Time
	ExpiresAt time.Time
}
