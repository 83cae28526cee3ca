// Package refreshtokens stores the emulator's server-side refresh tokens.
package refreshtokens

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

// Repository issues, finds and revokes refresh tokens.
type Repository interface {
	Create(ctx context.Context, token *models.RefreshToken) error

	// Find returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes one token. Deleting a missing token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteByUser revokes every token of userID.
	DeleteByUser(ctx context.Context, userID string) error
}
