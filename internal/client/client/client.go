// Package client declares the collaborators the note-taking controllers talk
// to and a gRPC implementation of all of them.
//
// DocumentStore persists notes, AuthBackend manages the account and the
// session, SessionSource reports who is signed in. GRPCClient implements all
// three against the NoteKeeper backend, injecting the access token into every
// call, refreshing it transparently and mapping gRPC status codes to the
// sentinel errors in this package.
package client

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

// DocumentStore is the remote note collection.
type DocumentStore interface {
	// CreateNote stores note and returns the id the store assigned.
	CreateNote(ctx context.Context, note models.Note) (string, error)
	// ListNotesByOwner returns only notes whose OwnerID equals ownerID.
	ListNotesByOwner(ctx context.Context, ownerID string) ([]models.Note, error)
	DeleteNote(ctx context.Context, id string) error
}

// SessionSource reports the signed-in identity, nil when signed out.
type SessionSource interface {
	CurrentUser() *models.Identity
}

// AuthBackend is the remote account service.
type AuthBackend interface {
	SessionSource

	SignUp(ctx context.Context, email, password string) (*models.Identity, error)
	SignInWithPassword(ctx context.Context, email, password string) (*models.Identity, error)
	// SignInWithCredential exchanges a federated credential for a session.
	SignInWithCredential(ctx context.Context, cred models.Credential) (*models.Identity, error)
	SignOut(ctx context.Context) error
	// Reauthenticate refreshes the sign-in time of the current session.
	Reauthenticate(ctx context.Context, cred models.Credential) error
	// DeleteAccount removes the current account. It fails with
	// ErrRequiresRecentLogin when the session's sign-in is too old.
	DeleteAccount(ctx context.Context) error
}
