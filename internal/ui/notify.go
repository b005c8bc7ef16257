package ui

import (
	"fmt"
	"sync"
)

// TerminalNotifier renders notification lifecycles on stdout. A
// pending Show starts a spinner; the terminal Update stops it and
// prints the final line. Satisfies the token package's Notifier.
type TerminalNotifier struct {
	mu       sync.Mutex
	next     int
	spinners map[string]*Spinner
}

// NewTerminalNotifier creates a stdout notifier.
func NewTerminalNotifier() *TerminalNotifier {
	return &TerminalNotifier{spinners: make(map[string]*Spinner)}
}

// Show displays a notification and returns its id.
func (n *TerminalNotifier) Show(message, kind string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.next++
	id := fmt.Sprintf("n%d", n.next)

	if kind == "pending" {
		sp := NewSpinner(message)
		sp.Start()
		n.spinners[id] = sp
		return id
	}

	fmt.Println(renderNote(message, kind))
	return id
}

// Update replaces a notification in place: the spinner stops and the
// terminal line takes its place.
func (n *TerminalNotifier) Update(id, message, kind string) {
	n.mu.Lock()
	sp := n.spinners[id]
	delete(n.spinners, id)
	n.mu.Unlock()

	if sp != nil {
		sp.StopWithMsg(renderNote(message, kind))
		return
	}
	fmt.Println(renderNote(message, kind))
}

func renderNote(message, kind string) string {
	switch kind {
	case "success":
		return Success(message)
	case "error":
		return Err(message)
	case "cancelled", "timeout":
		return Warn(message)
	default:
		return Meta(message)
	}
}
