package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/notes"
	"github.com/dmitrijs2005/notekeeper/internal/client/ui"
	"github.com/dmitrijs2005/notekeeper/internal/common"
)

var errBadIndex = errors.New("bad note number")

// openNotes loads the list after sign-in and shows the first page.
func (a *App) openNotes(ctx context.Context) error {
	return a.List(ctx)
}

// List fetches the notes and prints the first page.
func (a *App) List(ctx context.Context) error {
	nc := a.notesController()
	if nc == nil {
		return common.ErrNotSignedIn
	}
	if err := nc.FetchNotes(ctx); err != nil {
		return err
	}

	a.nav.Navigate(ui.NoteList)
	first, more := nc.Pages()
	if len(first) == 0 {
		printlnFn("No notes yet, type 'add' to create one")
		return nil
	}
	a.printNotes(nc, first, 1)
	if len(more) > 0 {
		printlnFn(fmt.Sprintf("%d more, type 'more'", len(more)))
	}
	return nil
}

// More prints the notes past the first page.
func (a *App) More(ctx context.Context) error {
	nc := a.notesController()
	if nc == nil {
		return common.ErrNotSignedIn
	}

	a.nav.Navigate(ui.NoteListMore)
	_, more := nc.Pages()
	if len(more) == 0 {
		printlnFn("No more notes")
		return nil
	}
	a.printNotes(nc, more, notes.PageSize+1)
	return nil
}

// Toggle expands or collapses note n and reprints it.
func (a *App) Toggle(ctx context.Context, args []string) error {
	nc := a.notesController()
	if nc == nil {
		return common.ErrNotSignedIn
	}
	n, note, err := pickNote(nc, args)
	if err != nil {
		printlnFn("Usage: toggle <n>")
		return err
	}

	expanded := nc.ToggleExpansion(note.ID)
	printlnFn(strings.TrimRight(ui.FormatNoteListItem(n, note, expanded), "\n"))
	return nil
}

// AddNote prompts for a title and content and saves the note.
func (a *App) AddNote(ctx context.Context) error {
	nc := a.notesController()
	if nc == nil {
		return common.ErrNotSignedIn
	}

	a.nav.Navigate(ui.NoteCreation)
	defer a.nav.Back(ui.NoteList)

	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		a.notifier.Error("Title and content are required")
		return common.ErrorInvalidArgument
	}

	if err := nc.SaveNote(ctx, title, content); err != nil {
		return err
	}
	a.notifier.Info("Note saved")
	return nil
}

// Delete removes note n of the current list.
func (a *App) Delete(ctx context.Context, args []string) error {
	nc := a.notesController()
	if nc == nil {
		return common.ErrNotSignedIn
	}
	_, note, err := pickNote(nc, args)
	if err != nil {
		printlnFn("Usage: delete <n>")
		return err
	}

	if err := nc.DeleteNote(ctx, note.ID); err != nil {
		return err
	}
	a.notifier.Info("Note deleted")
	return nil
}

func (a *App) printNotes(nc *notes.Controller, list []models.Note, start int) {
	for i, n := range list {
		printlnFn(strings.TrimRight(ui.FormatNoteListItem(start+i, n, nc.IsExpanded(n.ID)), "\n"))
	}
}

// pickNote resolves a 1-based note number from args.
func pickNote(nc *notes.Controller, args []string) (int, models.Note, error) {
	if len(args) != 1 {
		return 0, models.Note{}, errBadIndex
	}
	n, err := strconv.Atoi(args[0])
	list := nc.Notes()
	if err != nil || n < 1 || n > len(list) {
		return 0, models.Note{}, errBadIndex
	}
	return n, list[n-1], nil
}
