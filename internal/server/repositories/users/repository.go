// Package users stores emulator accounts and the sign-in providers linked to
// them.
package users

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

// Repository persists users. Lookups return common.ErrorNotFound for missing
// rows, Create returns common.ErrorAlreadyExists for a taken email.
type Repository interface {
	// Create inserts user with its providers, assigning ID and CreatedAt when
	// they are empty. Run it inside a transaction on SQL backends.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// AddProvider links p after the providers already on the account.
	AddProvider(ctx context.Context, userID string, p models.Provider) error
	Delete(ctx context.Context, id string) error
}
