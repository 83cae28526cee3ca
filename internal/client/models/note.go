// Package models defines the client-side domain types shared by the
// controllers and their collaborators.
package models

import "time"

// Note is a short text note owned by one user. ID is empty until the store
// assigns one.
type Note struct {
	ID        string
	Title     string
	Content   string
	OwnerID   string
	CreatedAt time.Time
}
