// Package notes backs the note-list and note-creation screens: it keeps the
// signed-in user's notes in memory, mediates create and delete against the
// document store and tracks which notes are expanded.
//
// Mutations never touch the local list. Every successful create or delete is
// followed by a full owner-scoped fetch, so the list always mirrors the
// store.
package notes

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/ui"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

// PageSize is how many notes the first list screen shows; the rest go to the
// "more" screen.
const PageSize = 5

type Controller struct {
	store    client.DocumentStore
	session  client.SessionSource
	notifier ui.Notifier
	logger   logging.Logger
	now      func() time.Time

	mu       sync.RWMutex
	notes    []models.Note
	expanded map[string]struct{}
}

func NewController(store client.DocumentStore, session client.SessionSource, n ui.Notifier, l logging.Logger) *Controller {
	return &Controller{
		store:    store,
		session:  session,
		notifier: n,
		logger:   l.With("module", "notes"),
		now:      time.Now,
		notes:    []models.Note{},
		expanded: make(map[string]struct{}),
	}
}

// FetchNotes replaces the list with the current user's notes. Without a
// signed-in user it returns common.ErrNotSignedIn and sends nothing. On
// failure the previous list is kept.
func (c *Controller) FetchNotes(ctx context.Context) error {
	user := c.session.CurrentUser()
	if user == nil {
		c.logger.Warn(ctx, "fetch skipped, no signed-in user")
		return common.ErrNotSignedIn
	}

	notes, err := c.store.ListNotesByOwner(ctx, user.UserID)
	if err != nil {
		c.logger.Error(ctx, "error fetching notes", "error", err)
		c.notifier.Error("Could not load notes")
		return fmt.Errorf("error fetching notes: %w", err)
	}
	if notes == nil {
		notes = []models.Note{}
	}

	c.mu.Lock()
	c.notes = notes
	c.mu.Unlock()

	c.logger.Debug(ctx, "notes fetched", "count", len(notes))
	return nil
}

// SaveNote stores a new note owned by the current user and refetches. Title
// and content are validated by the caller. A failed refetch is returned even
// though the note was stored.
func (c *Controller) SaveNote(ctx context.Context, title, content string) error {
	user := c.session.CurrentUser()
	if user == nil {
		c.logger.Warn(ctx, "save skipped, no signed-in user")
		return common.ErrNotSignedIn
	}

	note := models.Note{
		Title:     title,
		Content:   content,
		OwnerID:   user.UserID,
		CreatedAt: c.now().UTC(),
	}

	id, err := c.store.CreateNote(ctx, note)
	if err != nil {
		c.logger.Error(ctx, "error saving note", "error", err)
		c.notifier.Error("Could not save note")
		return fmt.Errorf("error saving note: %w", err)
	}
	c.logger.Info(ctx, "note saved", "id", id)

	return c.FetchNotes(ctx)
}

// DeleteNote deletes note id and refetches. Ownership is left to the store.
func (c *Controller) DeleteNote(ctx context.Context, id string) error {
	if err := c.store.DeleteNote(ctx, id); err != nil {
		c.logger.Error(ctx, "error deleting note", "id", id, "error", err)
		c.notifier.Error("Could not delete note")
		return fmt.Errorf("error deleting note: %w", err)
	}
	c.logger.Info(ctx, "note deleted", "id", id)

	return c.FetchNotes(ctx)
}

// Notes returns a copy of the current list.
func (c *Controller) Notes() []models.Note {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.notes)
}

// Pages splits the list into the first PageSize notes and the rest.
func (c *Controller) Pages() (first, more []models.Note) {
	notes := c.Notes()
	if len(notes) <= PageSize {
		return notes, []models.Note{}
	}
	return notes[:PageSize], notes[PageSize:]
}

// ToggleExpansion flips whether id is expanded and reports the new state.
func (c *Controller) ToggleExpansion(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.expanded[id]; ok {
		delete(c.expanded, id)
		return false
	}
	c.expanded[id] = struct{}{}
	return true
}

func (c *Controller) IsExpanded(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.expanded[id]
	return ok
}

// Expanded returns the expanded ids, sorted.
func (c *Controller) Expanded() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.expanded))
	for id := range c.expanded {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
