package token

import (
	"fmt"
	"sync"
)

// Notification kinds.
const (
	NotePending = "pending"
	NoteSuccess = "success"
	NoteError   = "error"
	NoteCancel  = "cancelled"
	NoteTimeout = "timeout"
)

// Notifier is the notification surface the controller and syncer drive.
// Show creates a notification and returns its id; Update rewrites an
// existing one in place.
type Notifier interface {
	Show(message, kind string) string
	Update(id, message, kind string)
}

// Note is one recorded notification event.
type Note struct {
	ID      string
	Message string
	Kind    string
	Updated bool
}

// NoteRecorder is an in-memory Notifier for tests.
type NoteRecorder struct {
	mu    sync.Mutex
	Notes []Note
	next  int
}

// NewNoteRecorder creates an empty recorder.
func NewNoteRecorder() *NoteRecorder {
	return &NoteRecorder{}
}

func (r *NoteRecorder) Show(message, kind string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	id := fmt.Sprintf("note-%d", r.next)
	r.Notes = append(r.Notes, Note{ID: id, Message: message, Kind: kind})
	return id
}

func (r *NoteRecorder) Update(id, message, kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notes = append(r.Notes, Note{ID: id, Message: message, Kind: kind, Updated: true})
}

// All returns a copy of the recorded events.
func (r *NoteRecorder) All() []Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Note, len(r.Notes))
	copy(out, r.Notes)
	return out
}

// ByID returns all recorded events for a notification id, in order.
func (r *NoteRecorder) ByID(id string) []Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Note
	for _, n := range r.Notes {
		if n.ID == id {
			out = append(out, n)
		}
	}
	return out
}
