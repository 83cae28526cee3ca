package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
)

// NoteService applies the store's access rules: a caller may create, list and
// delete only notes it owns.
type NoteService struct {
	repos repomanager.RepositoryManager
	now   func() time.Time
}

func NewNoteService(repos repomanager.RepositoryManager) *NoteService {
	return &NoteService{repos: repos, now: time.Now}
}

func (s *NoteService) Create(ctx context.Context, callerID string, note models.Note) (*models.Note, error) {
	if note.OwnerID != callerID {
		return nil, common.ErrorPermissionDenied
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = s.now().UTC()
	}

	n, err := s.repos.Notes().Create(ctx, &note)
	if err != nil {
		return nil, fmt.Errorf("error creating note: %w", err)
	}
	return n, nil
}

func (s *NoteService) List(ctx context.Context, callerID, ownerID string) ([]models.Note, error) {
	if ownerID != callerID {
		return nil, common.ErrorPermissionDenied
	}

	notes, err := s.repos.Notes().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}
	return notes, nil
}

// Delete removes note id. Missing ids yield common.ErrorNotFound, notes of
// other owners common.ErrorPermissionDenied.
func (s *NoteService) Delete(ctx context.Context, callerID, id string) error {
	note, err := s.repos.Notes().Get(ctx, id)
	if err != nil {
		return err
	}
	if note.OwnerID != callerID {
		return common.ErrorPermissionDenied
	}
	return s.repos.Notes().Delete(ctx, id)
}
