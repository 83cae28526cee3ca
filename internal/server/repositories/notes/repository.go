// Package notes stores owner-scoped text notes.
package notes

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

// Repository persists notes. Ownership rules live in the service layer.
type Repository interface {
	// Create stores note, assigning its ID.
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	// ListByOwner returns the notes of ownerID ordered by creation time.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Note, error)
	// Get returns common.ErrorNotFound for unknown ids.
	Get(ctx context.Context, id string) (*models.Note, error)
	Delete(ctx context.Context, id string) error
}
