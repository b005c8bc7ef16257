package token

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listFixture struct {
	mu      sync.Mutex
	entries map[ListKind][]string
	errs    map[ListKind]error
	calls   map[ListKind]int
	gate    chan struct{}
}

func newListFixture() *listFixture {
	return &listFixture{
		entries: map[ListKind][]string{},
		errs:    map[ListKind]error{},
		calls:   map[ListKind]int{},
	}
}

func (f *listFixture) read(kind ListKind) ([]string, error) {
	f.mu.Lock()
	f.calls[kind]++
	gate := f.gate
	entries, err := f.entries[kind], f.errs[kind]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return entries, err
}

func TestRefreshReplacesWholesale(t *testing.T) {
	f := newListFixture()
	f.entries[ListWhitelist] = []string{"0xaaa", "0xbbb"}
	s := NewSyncer(f.read, NewNoteRecorder())

	require.True(t, s.Refresh(ListWhitelist))
	st := s.State(ListWhitelist)
	assert.True(t, st.Supported)
	assert.Equal(t, []string{"0xaaa", "0xbbb"}, st.Entries)
	assert.False(t, st.Loading)

	// A shrunken remote list fully overwrites the local one.
	f.mu.Lock()
	f.entries[ListWhitelist] = []string{"0xccc"}
	f.mu.Unlock()
	require.True(t, s.Refresh(ListWhitelist))
	assert.Equal(t, []string{"0xccc"}, s.State(ListWhitelist).Entries)
}

func TestRefreshUnsupportedIsSilent(t *testing.T) {
	f := newListFixture()
	f.errs[ListWhitelist] = errors.New("RPC error -32000: execution reverted")
	notes := NewNoteRecorder()
	s := NewSyncer(f.read, notes)

	require.True(t, s.Refresh(ListWhitelist))

	st := s.State(ListWhitelist)
	assert.False(t, st.Supported)
	assert.Empty(t, st.Entries)
	assert.Empty(t, notes.All(), "unsupported probes must not notify")
}

func TestRefreshGenericErrorNotifies(t *testing.T) {
	f := newListFixture()
	f.errs[ListBlacklist] = errors.New("connection refused")
	notes := NewNoteRecorder()
	s := NewSyncer(f.read, notes)

	require.True(t, s.Refresh(ListBlacklist))

	st := s.State(ListBlacklist)
	assert.True(t, st.Supported, "generic faults keep the prior supported flag")
	assert.Empty(t, st.Entries)

	all := notes.All()
	require.Len(t, all, 1)
	assert.Equal(t, NoteError, all[0].Kind)
}

func TestRefreshRecoversFromUnsupported(t *testing.T) {
	f := newListFixture()
	f.errs[ListWhitelist] = errors.New("execution reverted")
	s := NewSyncer(f.read, NewNoteRecorder())

	require.True(t, s.Refresh(ListWhitelist))
	assert.False(t, s.State(ListWhitelist).Supported)

	// An explicit retry that succeeds flips the list back on.
	f.mu.Lock()
	f.errs[ListWhitelist] = nil
	f.entries[ListWhitelist] = []string{"0xaaa"}
	f.mu.Unlock()
	require.True(t, s.Refresh(ListWhitelist))

	st := s.State(ListWhitelist)
	assert.True(t, st.Supported)
	assert.Equal(t, []string{"0xaaa"}, st.Entries)
}

func TestRefreshDedupesInFlight(t *testing.T) {
	f := newListFixture()
	f.gate = make(chan struct{})
	s := NewSyncer(f.read, NewNoteRecorder())

	done := make(chan struct{})
	go func() {
		s.Refresh(ListWhitelist)
		close(done)
	}()

	// Wait for the first refresh to be mid-read, then try again.
	assert.Eventually(t, func() bool {
		return s.State(ListWhitelist).Loading
	}, time.Second, 5*time.Millisecond)
	assert.False(t, s.Refresh(ListWhitelist), "second refresh must be dropped")

	close(f.gate)
	<-done

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, 1, f.calls[ListWhitelist])
}

func TestRefreshBothIndependent(t *testing.T) {
	f := newListFixture()
	f.entries[ListWhitelist] = []string{"0xaaa"}
	f.errs[ListBlacklist] = errors.New("execution reverted")
	s := NewSyncer(f.read, NewNoteRecorder())

	s.RefreshBoth()

	wl := s.State(ListWhitelist)
	assert.True(t, wl.Supported)
	assert.Equal(t, []string{"0xaaa"}, wl.Entries)

	bl := s.State(ListBlacklist)
	assert.False(t, bl.Supported)
	assert.Empty(t, bl.Entries)
}

func TestRefreshAfterRereadsBothLists(t *testing.T) {
	f := newListFixture()
	s := NewSyncer(f.read, NewNoteRecorder())

	// A whitelist mutation still re-reads the blacklist.
	s.RefreshAfter(KindWhitelistAdd)

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, 1, f.calls[ListWhitelist])
	assert.Equal(t, 1, f.calls[ListBlacklist])
}

func TestStateReturnsCopy(t *testing.T) {
	f := newListFixture()
	f.entries[ListWhitelist] = []string{"0xaaa"}
	s := NewSyncer(f.read, NewNoteRecorder())
	require.True(t, s.Refresh(ListWhitelist))

	st := s.State(ListWhitelist)
	st.Entries[0] = "0xmutated"
	assert.Equal(t, []string{"0xaaa"}, s.State(ListWhitelist).Entries)
}
