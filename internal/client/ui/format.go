package ui

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/fatih/color"
)

var (
	faint = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

const collapsedContentLen = 40

// FormatNoteListItem renders one row of the note list. Collapsed notes show
// the first line of the content, cut to a short preview.
func FormatNoteListItem(index int, note models.Note, expanded bool) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%2d. %s  %s\n", index, bold(note.Title), faint(note.CreatedAt.Local().Format("2006-01-02 15:04"))))

	content := note.Content
	if !expanded {
		content = preview(content)
	}
	for _, line := range strings.Split(content, "\n") {
		sb.WriteString("    " + line + "\n")
	}

	return sb.String()
}

func preview(content string) string {
	first, _, more := strings.Cut(content, "\n")
	r := []rune(first)
	if len(r) > collapsedContentLen {
		return string(r[:collapsedContentLen]) + "..."
	}
	if more {
		return first + " ..."
	}
	return first
}

func Success(msg string) string {
	return color.New(color.FgGreen).Sprint("✓ ") + msg
}

func Failure(msg string) string {
	return color.New(color.FgRed).Sprint("✗ ") + msg
}
