package notes

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_OwnerScopedAndOrdered(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	second, err := r.Create(ctx, &models.Note{OwnerID: "u1", Title: "second", CreatedAt: base.Add(time.Minute)})
	require.NoError(t, err)
	first, err := r.Create(ctx, &models.Note{OwnerID: "u1", Title: "first", CreatedAt: base})
	require.NoError(t, err)
	_, err = r.Create(ctx, &models.Note{OwnerID: "u2", Title: "other", CreatedAt: base})
	require.NoError(t, err)

	got, err := r.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)

	empty, err := r.ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMemoryRepository_GetDelete(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	n, err := r.Create(ctx, &models.Note{OwnerID: "u1", Title: "t"})
	require.NoError(t, err)

	got, err := r.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)

	require.NoError(t, r.Delete(ctx, n.ID))
	assert.ErrorIs(t, r.Delete(ctx, n.ID), common.ErrorNotFound)
	_, err = r.Get(ctx, n.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
