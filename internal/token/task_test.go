package token

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenforge/tokenforge/internal/chain"
)

func testConfig() Config {
	cfg := DefaultConfig("0xfactory")
	cfg.PendingTimeout = 200 * time.Millisecond
	cfg.SettleDelay = 0
	return cfg
}

// fakeWaiter resolves receipts immediately, or blocks until the wait
// context expires when block is set.
type fakeWaiter struct {
	receipt *chain.TxReceipt
	err     error
	block   bool
}

func (w *fakeWaiter) WaitForReceipt(ctx context.Context, hash string) (*chain.TxReceipt, error) {
	if w.block {
		<-ctx.Done()
		return nil, fmt.Errorf("%w: %s", chain.ErrWaitTimeout, hash)
	}
	if w.err != nil {
		return nil, w.err
	}
	return w.receipt, nil
}

func waitDone(t *testing.T, task *Task) {
	t.Helper()
	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("task never reached a terminal state")
	}
}

func TestSubmitConfirmed(t *testing.T) {
	notes := NewNoteRecorder()
	waiter := &fakeWaiter{receipt: &chain.TxReceipt{Hash: "0xabc", Status: 1}}
	c := NewController(testConfig(), waiter, notes)

	task, err := c.Submit(KindMint, func() (string, error) { return "0xabc", nil })
	require.NoError(t, err)
	waitDone(t, task)

	assert.Equal(t, StateConfirmed, task.State())
	assert.Equal(t, "0xabc", task.Hash())
	assert.NoError(t, task.Err())
	require.NotNil(t, task.Receipt())
	assert.Equal(t, uint64(1), task.Receipt().Status)
}

func TestSubmitNotificationLifecycle(t *testing.T) {
	notes := NewNoteRecorder()
	waiter := &fakeWaiter{receipt: &chain.TxReceipt{Status: 1}}
	c := NewController(testConfig(), waiter, notes)

	task, err := c.Submit(KindPause, func() (string, error) { return "0x1", nil })
	require.NoError(t, err)
	waitDone(t, task)

	// Exactly one pending Show followed by exactly one terminal Update,
	// both on the same notification id.
	all := notes.All()
	require.Len(t, all, 2)
	assert.Equal(t, NotePending, all[0].Kind)
	assert.False(t, all[0].Updated)
	assert.Equal(t, NoteSuccess, all[1].Kind)
	assert.True(t, all[1].Updated)
	assert.Equal(t, all[0].ID, all[1].ID)
}

func TestSubmitRejected(t *testing.T) {
	notes := NewNoteRecorder()
	c := NewController(testConfig(), &fakeWaiter{}, notes)

	task, err := c.Submit(KindBurn, func() (string, error) {
		return "", errors.New("User rejected the request.")
	})
	require.NoError(t, err)
	waitDone(t, task)

	assert.Equal(t, StateRejected, task.State())
	assert.Error(t, task.Err())

	all := notes.All()
	require.Len(t, all, 2)
	assert.Equal(t, NoteCancel, all[1].Kind)
}

func TestSubmitFailedAppendsRawText(t *testing.T) {
	notes := NewNoteRecorder()
	c := NewController(testConfig(), &fakeWaiter{}, notes)

	task, err := c.Submit(KindMint, func() (string, error) {
		return "", errors.New("nonce too low")
	})
	require.NoError(t, err)
	waitDone(t, task)

	assert.Equal(t, StateFailed, task.State())

	all := notes.All()
	require.Len(t, all, 2)
	assert.Equal(t, NoteError, all[1].Kind)
	assert.Contains(t, all[1].Message, "nonce too low")
}

func TestSubmitRevertDuringWait(t *testing.T) {
	notes := NewNoteRecorder()
	waiter := &fakeWaiter{err: fmt.Errorf("%w (hash: 0x2)", chain.ErrReverted)}
	c := NewController(testConfig(), waiter, notes)

	task, err := c.Submit(KindUnpause, func() (string, error) { return "0x2", nil })
	require.NoError(t, err)
	waitDone(t, task)

	assert.Equal(t, StateFailed, task.State())
	assert.ErrorIs(t, task.Err(), chain.ErrReverted)
}

func TestSubmitTimeout(t *testing.T) {
	notes := NewNoteRecorder()
	cfg := testConfig()
	cfg.PendingTimeout = 30 * time.Millisecond
	c := NewController(cfg, &fakeWaiter{block: true}, notes)

	task, err := c.Submit(KindMint, func() (string, error) { return "0x3", nil })
	require.NoError(t, err)
	waitDone(t, task)

	assert.Equal(t, StateTimedOut, task.State())
	assert.ErrorIs(t, task.Err(), chain.ErrWaitTimeout)

	all := notes.All()
	require.Len(t, all, 2)
	assert.Equal(t, NoteTimeout, all[1].Kind)

	// The slot is free again for an explicit resubmission.
	assert.False(t, c.Busy(KindMint))
	_, err = c.Submit(KindMint, func() (string, error) { return "", errors.New("x") })
	assert.NoError(t, err)
}

func TestSubmitSlotBusy(t *testing.T) {
	notes := NewNoteRecorder()
	cfg := testConfig()
	c := NewController(cfg, &fakeWaiter{block: true}, notes)

	release := make(chan struct{})
	task, err := c.Submit(KindMint, func() (string, error) {
		<-release
		return "0x4", nil
	})
	require.NoError(t, err)
	assert.True(t, c.Busy(KindMint))

	_, err = c.Submit(KindMint, func() (string, error) { return "0x5", nil })
	assert.ErrorIs(t, err, ErrSlotBusy)

	// Independent slots are not blocked.
	other, err := c.Submit(KindBurn, func() (string, error) {
		return "", errors.New("User denied transaction signature")
	})
	require.NoError(t, err)
	waitDone(t, other)

	close(release)
	waitDone(t, task)
}

func TestRefreshHookOnConfirm(t *testing.T) {
	notes := NewNoteRecorder()
	waiter := &fakeWaiter{receipt: &chain.TxReceipt{Status: 1}}
	c := NewController(testConfig(), waiter, notes)

	var mu sync.Mutex
	var refreshed []Kind
	c.OnConfirmed(func(kind Kind) {
		mu.Lock()
		refreshed = append(refreshed, kind)
		mu.Unlock()
	})

	task, err := c.Submit(KindWhitelistAdd, func() (string, error) { return "0x6", nil })
	require.NoError(t, err)
	waitDone(t, task)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(refreshed) == 1 && refreshed[0] == KindWhitelistAdd
	}, time.Second, 10*time.Millisecond)
}

func TestRefreshHookNotCalledOnFailure(t *testing.T) {
	notes := NewNoteRecorder()
	c := NewController(testConfig(), &fakeWaiter{}, notes)

	var mu sync.Mutex
	called := false
	c.OnConfirmed(func(Kind) {
		mu.Lock()
		called = true
		mu.Unlock()
	})

	task, err := c.Submit(KindPause, func() (string, error) {
		return "", errors.New("boom")
	})
	require.NoError(t, err)
	waitDone(t, task)

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.False(t, called)
}

func TestTaskIDsUnique(t *testing.T) {
	notes := NewNoteRecorder()
	waiter := &fakeWaiter{receipt: &chain.TxReceipt{Status: 1}}
	c := NewController(testConfig(), waiter, notes)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		task, err := c.Submit(KindMint, func() (string, error) { return "0x7", nil })
		require.NoError(t, err)
		waitDone(t, task)
		assert.False(t, seen[task.ID])
		seen[task.ID] = true
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "timed out", StateTimedOut.String())
	assert.True(t, StateConfirmed.Terminal())
	assert.False(t, StatePending.Terminal())
}
