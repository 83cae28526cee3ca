// Package repomanager hands out the emulator's repositories for the selected
// storage backend and runs multi-step writes atomically.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/users"
)

// Repositories is a set of repositories bound to one handle: the database,
// or a single transaction inside InTx.
type Repositories interface {
	Users() users.Repository
	RefreshTokens() refreshtokens.Repository
	Notes() notes.Repository
}

type RepositoryManager interface {
	Repositories

	// RunMigrations brings the schema up to date. No-op for in-memory storage.
	RunMigrations(ctx context.Context) error

	// InTx runs fn with repositories sharing one transaction. fn's error
	// rolls the transaction back and is returned unchanged.
	InTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error

	Close() error
}
