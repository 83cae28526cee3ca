package notes

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps notes in a map guarded by a RWMutex.
type MemoryRepository struct {
	mu    sync.RWMutex
	notes map[string]models.Note
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{notes: make(map[string]models.Note)}
}

func (r *MemoryRepository) Create(_ context.Context, note *models.Note) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	note.ID = uuid.NewString()
	r.notes[note.ID] = *note

	return note, nil
}

func (r *MemoryRepository) ListByOwner(_ context.Context, ownerID string) ([]models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Note{}
	for _, n := range r.notes {
		if n.OwnerID == ownerID {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, func(a, b models.Note) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return out, nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &n, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.notes, id)

	return nil
}
