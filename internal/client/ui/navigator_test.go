package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStackNavigator(t *testing.T) {
	n := NewStackNavigator(Login)
	assert.Equal(t, Login, n.Current())

	n.Navigate(Settings)
	n.Navigate(NoteList)
	n.Navigate(NoteList)
	assert.Equal(t, NoteList, n.Current())
	assert.Equal(t, 3, n.Depth(), "navigating to the current screen is a no-op")

	n.Back(Settings)
	assert.Equal(t, Settings, n.Current())
	assert.Equal(t, 2, n.Depth())

	n.Back(Register)
	assert.Equal(t, Register, n.Current())
	assert.Equal(t, 1, n.Depth(), "unknown destination resets the stack")
}
