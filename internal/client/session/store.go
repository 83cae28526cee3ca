// Package session persists the client's refresh token between runs so a
// restarted client comes back signed in.
package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/client/migrations"
	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/notekeeper/internal/filex"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const refreshTokenKey = "refresh_token"

// Store keeps at most one refresh token. Load returns "" when none is saved.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, refreshToken string) error
	Clear(ctx context.Context) error
}

// SQLiteStore keeps the token in the metadata table of a local SQLite file.
type SQLiteStore struct {
	db   *sql.DB
	repo metadata.Repository
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLiteStore opens (creating if needed) the database file at path and
// applies the client migrations.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	path, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, fmt.Errorf("session db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session db migrations: %w", err)
	}

	return &SQLiteStore{db: db, repo: metadata.NewSQLiteRepository(db)}, nil
}

// RunMigrations applies the embedded client migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *SQLiteStore) Load(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, refreshTokenKey)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *SQLiteStore) Save(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return s.Clear(ctx)
	}
	return s.repo.Set(ctx, refreshTokenKey, []byte(refreshToken))
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, refreshTokenKey)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
