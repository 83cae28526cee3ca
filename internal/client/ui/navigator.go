// Package ui holds the collaborators the controllers use to drive the
// screens: logical navigation, toast-style notifications and note formatting
// for the terminal shell.
package ui

import "sync"

// Destination is a logical screen. Controllers know destinations, never
// concrete routes.
type Destination string

const (
	Login        Destination = "login"
	Register     Destination = "register"
	Settings     Destination = "settings"
	NoteList     Destination = "notes"
	NoteListMore Destination = "notes_more"
	NoteCreation Destination = "new_note"
)

// Navigator receives "go to" and "go back to" requests.
type Navigator interface {
	Navigate(dest Destination)
	// Back returns to dest, dropping everything above it.
	Back(dest Destination)
}

// StackNavigator is a back stack of destinations.
type StackNavigator struct {
	mu    sync.Mutex
	stack []Destination
}

var _ Navigator = (*StackNavigator)(nil)

func NewStackNavigator(start Destination) *StackNavigator {
	return &StackNavigator{stack: []Destination{start}}
}

func (n *StackNavigator) Navigate(dest Destination) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.stack) > 0 && n.stack[len(n.stack)-1] == dest {
		return
	}
	n.stack = append(n.stack, dest)
}

// Back pops to the topmost dest. When dest is not on the stack it becomes the
// only entry.
func (n *StackNavigator) Back(dest Destination) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i := len(n.stack) - 1; i >= 0; i-- {
		if n.stack[i] == dest {
			n.stack = n.stack[:i+1]
			return
		}
	}
	n.stack = []Destination{dest}
}

// Current is the screen on top of the stack.
func (n *StackNavigator) Current() Destination {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.stack) == 0 {
		return ""
	}
	return n.stack[len(n.stack)-1]
}

func (n *StackNavigator) Depth() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.stack)
}
