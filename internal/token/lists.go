package token

import "sync"

// ListKind names one of the two membership lists.
type ListKind string

const (
	ListWhitelist ListKind = "whitelist"
	ListBlacklist ListKind = "blacklist"
)

// ListState is the local mirror of one membership list. Supported flips
// to false only when a probe fails with the unsupported vocabulary, and
// stays false until a later refresh succeeds.
type ListState struct {
	Supported bool
	Entries   []string
	Loading   bool
}

// ListReadFunc fetches the current members of a list from the ledger.
type ListReadFunc func(kind ListKind) ([]string, error)

// Syncer keeps both membership lists reconciled with the ledger. Each
// successful refresh replaces the entries wholesale; there is no merge.
// The two lists refresh independently, and a refresh request for a list
// that already has one in flight is dropped.
type Syncer struct {
	read   ListReadFunc
	notify Notifier

	mu       sync.Mutex
	lists    map[ListKind]*ListState
	inflight map[ListKind]bool
}

// NewSyncer creates a syncer over a list read function. Both lists
// start assumed-supported with no entries.
func NewSyncer(read ListReadFunc, notify Notifier) *Syncer {
	return &Syncer{
		read:   read,
		notify: notify,
		lists: map[ListKind]*ListState{
			ListWhitelist: {Supported: true},
			ListBlacklist: {Supported: true},
		},
		inflight: make(map[ListKind]bool),
	}
}

// State returns a copy of the current state for kind.
func (s *Syncer) State(kind ListKind) ListState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.lists[kind]
	out := ListState{Supported: st.Supported, Loading: st.Loading}
	out.Entries = append(out.Entries, st.Entries...)
	return out
}

// Refresh re-reads one list. On success the entries are replaced
// wholesale. On fault the unsupported vocabulary marks the list
// unsupported silently; any other fault keeps the prior supported flag,
// clears the entries, and emits one generic fetch-error notification.
// Returns false if the request was dropped because a refresh of the
// same list was already in flight.
func (s *Syncer) Refresh(kind ListKind) bool {
	s.mu.Lock()
	if s.inflight[kind] {
		s.mu.Unlock()
		return false
	}
	s.inflight[kind] = true
	s.lists[kind].Loading = true
	s.mu.Unlock()

	entries, err := s.read(kind)

	s.mu.Lock()
	st := s.lists[kind]
	st.Loading = false
	s.inflight[kind] = false

	switch {
	case err == nil:
		st.Supported = true
		st.Entries = entries
		s.mu.Unlock()

	case IsUnsupported(err):
		st.Supported = false
		st.Entries = nil
		s.mu.Unlock()

	default:
		st.Entries = nil
		s.mu.Unlock()
		s.notify.Show("Failed to fetch "+string(kind), NoteError)
	}
	return true
}

// RefreshBoth refreshes the two lists concurrently and waits for both.
// A fault in one never blocks or corrupts the other.
func (s *Syncer) RefreshBoth() {
	var wg sync.WaitGroup
	for _, kind := range []ListKind{ListWhitelist, ListBlacklist} {
		wg.Add(1)
		go func(k ListKind) {
			defer wg.Done()
			s.Refresh(k)
		}(kind)
	}
	wg.Wait()
}

// RefreshAfter is the post-mutation hook: any confirmed list mutation
// re-reads both lists unconditionally, at the cost of one redundant
// read when the mutation touched only one of them.
func (s *Syncer) RefreshAfter(Kind) {
	s.RefreshBoth()
}
