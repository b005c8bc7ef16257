package token

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tokenforge/tokenforge/internal/chain"
)

// Kind names one logical operation slot. At most one task per slot is
// in flight; independent slots do not block each other.
type Kind string

const (
	KindMint                Kind = "mint"
	KindBurn                Kind = "burn"
	KindPause               Kind = "pause"
	KindUnpause             Kind = "unpause"
	KindWhitelistAdd        Kind = "whitelistAdd"
	KindWhitelistRemove     Kind = "whitelistRemove"
	KindBlacklistAdd        Kind = "blacklistAdd"
	KindBlacklistRemove     Kind = "blacklistRemove"
	KindSetWhitelistEnabled Kind = "setWhitelistEnabled"
	KindRenounceOwnership   Kind = "renounceOwnership"
	KindCreateToken         Kind = "createToken"
)

// State is a task's position in the lifecycle.
type State int

const (
	StateIdle State = iota
	StateSubmitted
	StatePending
	StateConfirmed
	StateFailed
	StateRejected
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitted:
		return "submitted"
	case StatePending:
		return "pending"
	case StateConfirmed:
		return "confirmed"
	case StateFailed:
		return "failed"
	case StateRejected:
		return "rejected"
	case StateTimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	switch s {
	case StateConfirmed, StateFailed, StateRejected, StateTimedOut:
		return true
	}
	return false
}

// ErrSlotBusy is returned by Submit while the slot has a live task.
var ErrSlotBusy = errors.New("operation already in flight")

// Task tracks one mutating operation from submission to its terminal
// state. Read it after Done closes, or via snapshot methods while live.
type Task struct {
	ID        string
	Kind      Kind
	StartedAt time.Time

	mu       sync.Mutex
	state    State
	hash     string
	err      error
	receipt  *chain.TxReceipt
	noteID   string
	done     chan struct{}
	doneOnce sync.Once
}

// State returns the task's current state.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Hash returns the transaction hash, empty until broadcast succeeds.
func (t *Task) Hash() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hash
}

// Err returns the captured fault, nil unless Failed/Rejected/TimedOut.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Receipt returns the mined receipt, nil unless Confirmed.
func (t *Task) Receipt() *chain.TxReceipt {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.receipt
}

// Done closes when the task reaches a terminal state.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// WriteFunc performs the remote write and returns the transaction hash.
type WriteFunc func() (string, error)

// ReceiptWaiter blocks until the transaction is mined or ctx expires.
// chain.EVMClient satisfies it.
type ReceiptWaiter interface {
	WaitForReceipt(ctx context.Context, hash string) (*chain.TxReceipt, error)
}

// RefreshFunc is invoked after a confirmed write has settled, so the
// owner can re-read whatever state the operation touched.
type RefreshFunc func(kind Kind)

// Controller drives mutating operations through submit → pending →
// terminal, with exactly one notification lifecycle per task: one
// pending Show, then one terminal Update. Faults never propagate out;
// they are captured on the task and rendered.
type Controller struct {
	cfg    Config
	waiter ReceiptWaiter
	notify Notifier

	mu       sync.Mutex
	inflight map[Kind]*Task
	refresh  RefreshFunc
}

// NewController creates a controller over a receipt waiter and a
// notification sink.
func NewController(cfg Config, waiter ReceiptWaiter, notify Notifier) *Controller {
	return &Controller{
		cfg:      cfg,
		waiter:   waiter,
		notify:   notify,
		inflight: make(map[Kind]*Task),
	}
}

// OnConfirmed registers the post-settle refresh hook.
func (c *Controller) OnConfirmed(fn RefreshFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh = fn
}

// Busy reports whether a task is in flight for kind.
func (c *Controller) Busy(kind Kind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inflight[kind]
	return ok
}

// Submit starts a task for kind. It returns ErrSlotBusy if one is
// already in flight; otherwise the returned task is live and its Done
// channel closes on the terminal transition. The confirmation wait is
// bounded by Config.PendingTimeout; hitting the ceiling frees the slot
// for resubmission and abandons the transaction, which may still land
// on-chain later and is deliberately not reconciled.
func (c *Controller) Submit(kind Kind, write WriteFunc) (*Task, error) {
	c.mu.Lock()
	if _, busy := c.inflight[kind]; busy {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrSlotBusy, kind)
	}

	task := &Task{
		ID:        uuid.NewString(),
		Kind:      kind,
		StartedAt: time.Now(),
		state:     StateSubmitted,
		done:      make(chan struct{}),
	}
	c.inflight[kind] = task
	c.mu.Unlock()

	task.noteID = c.notify.Show(pendingMessage(kind), NotePending)

	go c.run(task, write)
	return task, nil
}

func (c *Controller) run(task *Task, write WriteFunc) {
	hash, err := write()
	if err != nil {
		if IsRejection(err) {
			c.finish(task, StateRejected, err,
				cancelMessage(task.Kind), NoteCancel)
			return
		}
		c.finish(task, StateFailed, err,
			failureMessage(task.Kind, err), NoteError)
		return
	}

	task.mu.Lock()
	task.state = StatePending
	task.hash = hash
	task.mu.Unlock()

	// The pending ceiling is the wait context itself, so the timeout
	// cannot fire after a terminal transition.
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.PendingTimeout)
	defer cancel()

	receipt, err := c.waiter.WaitForReceipt(ctx, hash)
	switch {
	case err == nil:
		task.mu.Lock()
		task.receipt = receipt
		task.mu.Unlock()
		c.finish(task, StateConfirmed, nil,
			successMessage(task.Kind), NoteSuccess)
		c.settleAndRefresh(task.Kind)

	case errors.Is(err, chain.ErrWaitTimeout):
		c.finish(task, StateTimedOut, err,
			timeoutMessage(task.Kind), NoteTimeout)

	default:
		c.finish(task, StateFailed, err,
			failureMessage(task.Kind, err), NoteError)
	}
}

// finish performs the single terminal transition: task state, slot
// release, the one notification update, and the Done close.
func (c *Controller) finish(task *Task, state State, err error, message, noteKind string) {
	task.mu.Lock()
	if task.state.Terminal() {
		task.mu.Unlock()
		return
	}
	task.state = state
	task.err = err
	task.mu.Unlock()

	c.mu.Lock()
	if c.inflight[task.Kind] == task {
		delete(c.inflight, task.Kind)
	}
	c.mu.Unlock()

	c.notify.Update(task.noteID, message, noteKind)
	task.doneOnce.Do(func() { close(task.done) })
}

func (c *Controller) settleAndRefresh(kind Kind) {
	c.mu.Lock()
	refresh := c.refresh
	c.mu.Unlock()
	if refresh == nil {
		return
	}
	if c.cfg.SettleDelay > 0 {
		time.Sleep(c.cfg.SettleDelay)
	}
	refresh(kind)
}

// --- per-operation notification copy ---

var opLabels = map[Kind]string{
	KindMint:                "Minting tokens",
	KindBurn:                "Burning tokens",
	KindPause:               "Pausing transfers",
	KindUnpause:             "Unpausing transfers",
	KindWhitelistAdd:        "Adding to whitelist",
	KindWhitelistRemove:     "Removing from whitelist",
	KindBlacklistAdd:        "Adding to blacklist",
	KindBlacklistRemove:     "Removing from blacklist",
	KindSetWhitelistEnabled: "Updating whitelist mode",
	KindRenounceOwnership:   "Renouncing ownership",
	KindCreateToken:         "Creating token",
}

func opLabel(kind Kind) string {
	if l, ok := opLabels[kind]; ok {
		return l
	}
	return string(kind)
}

func pendingMessage(kind Kind) string {
	return opLabel(kind) + "..."
}

func successMessage(kind Kind) string {
	return opLabel(kind) + " confirmed"
}

func cancelMessage(kind Kind) string {
	return opLabel(kind) + " cancelled"
}

func timeoutMessage(kind Kind) string {
	return opLabel(kind) + " timed out, please try again"
}

func failureMessage(kind Kind, err error) string {
	msg := opLabel(kind) + " failed"
	if err != nil {
		msg += ": " + err.Error()
	}
	return msg
}
