package ui

import (
	"fmt"
	"io"
	"sync"
)

// Notifier shows short, non-blocking messages to the user.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

// TerminalNotifier prints toasts as single colored lines.
type TerminalNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

var _ Notifier = (*TerminalNotifier)(nil)

func NewTerminalNotifier(w io.Writer) *TerminalNotifier {
	return &TerminalNotifier{w: w}
}

func (n *TerminalNotifier) Info(msg string) {
	n.print(Success(msg))
}

func (n *TerminalNotifier) Error(msg string) {
	n.print(Failure(msg))
}

func (n *TerminalNotifier) print(line string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, line)
}
