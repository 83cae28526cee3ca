package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "session.db")

	s, err := OpenSQLiteStore(ctx, dsn)
	require.NoError(t, err)

	tok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, s.Save(ctx, "r1"))
	require.NoError(t, s.Close())

	s, err = OpenSQLiteStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	tok, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r1", tok)
}

func TestSQLiteStore_SaveEmptyClears(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLiteStore(ctx, filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Save(ctx, "r1"))
	require.NoError(t, s.Save(ctx, ""))

	tok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, s.Save(ctx, "r2"))
	require.NoError(t, s.Clear(ctx))
	tok, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestOpenSQLiteStore_CreatesParentDir(t *testing.T) {
	s, err := OpenSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "state", "session.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestOpenSQLiteStore_BadPath(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "state"), []byte("x"), 0o600))

	_, err := OpenSQLiteStore(context.Background(), filepath.Join(tmp, "state", "session.db"))
	assert.Error(t, err)
}
