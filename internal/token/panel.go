package token

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tokenforge/tokenforge/internal/chain"
)

// ContractWriter broadcasts write calls. contract.Sender satisfies it.
type ContractWriter interface {
	Send(contractAddr, funcName string, args ...string) (string, error)
}

// ErrNoDescriptor means an operation ran before the first Load.
var ErrNoDescriptor = errors.New("token not loaded")

// Panel is the post-creation administration surface for one token. It
// composes the reader, the lifecycle controller, and the list syncer,
// and routes post-confirmation refreshes: list mutations re-read both
// lists, everything else re-reads the full descriptor.
type Panel struct {
	addr    string
	account string
	reader  *Reader
	writer  ContractWriter
	ctrl    *Controller
	syncer  *Syncer

	// refreshed gets a signal after each post-confirmation re-read has
	// fully landed. Buffered so a slow reader never blocks the hook.
	refreshed chan struct{}

	mu   sync.Mutex
	desc *Descriptor
}

// NewPanel wires a panel for the token at addr, administered from
// account. The controller's confirmation hook is claimed by the panel.
func NewPanel(addr, account string, reader *Reader, writer ContractWriter, ctrl *Controller, notify Notifier) *Panel {
	p := &Panel{
		addr:      addr,
		account:   account,
		reader:    reader,
		writer:    writer,
		ctrl:      ctrl,
		refreshed: make(chan struct{}, 1),
	}
	p.syncer = NewSyncer(func(kind ListKind) ([]string, error) {
		return reader.Members(addr, kind)
	}, notify)
	ctrl.OnConfirmed(p.refreshAfter)
	return p
}

// Load reads the full descriptor and both lists.
func (p *Panel) Load() error {
	desc, err := p.reader.Load(p.addr)
	if err != nil {
		return fmt.Errorf("loading token %s: %w", p.addr, err)
	}
	p.mu.Lock()
	p.desc = desc
	p.mu.Unlock()
	p.syncer.RefreshBoth()
	return nil
}

// Descriptor returns the cached descriptor, nil before the first Load.
func (p *Panel) Descriptor() *Descriptor {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.desc
}

// Lists returns the syncer for direct list state access.
func (p *Panel) Lists() *Syncer {
	return p.syncer
}

// IsOwner reports whether the connected account owns the token. Used
// for UI affordances only; the ledger enforces the real gate.
func (p *Panel) IsOwner() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.desc != nil && p.desc.OwnedBy(p.account)
}

// Mint mints amount whole tokens to the connected account. The amount
// is scaled by the token's declared decimals.
func (p *Panel) Mint(amount string) (*Task, error) {
	scaled, err := p.scaleAmount(amount)
	if err != nil {
		return nil, err
	}
	return p.ctrl.Submit(KindMint, func() (string, error) {
		return p.writer.Send(p.addr, "mint", p.account, scaled)
	})
}

// Burn burns amount whole tokens from the connected account.
func (p *Panel) Burn(amount string) (*Task, error) {
	scaled, err := p.scaleAmount(amount)
	if err != nil {
		return nil, err
	}
	return p.ctrl.Submit(KindBurn, func() (string, error) {
		return p.writer.Send(p.addr, "burn", scaled)
	})
}

// Pause halts transfers.
func (p *Panel) Pause() (*Task, error) {
	return p.submitPlain(KindPause, "pause")
}

// Unpause resumes transfers.
func (p *Panel) Unpause() (*Task, error) {
	return p.submitPlain(KindUnpause, "unpause")
}

// AddToList adds account to the given membership list.
func (p *Panel) AddToList(kind ListKind, account string) (*Task, error) {
	if kind == ListBlacklist {
		return p.submitAddr(KindBlacklistAdd, "addToBlacklist", account)
	}
	return p.submitAddr(KindWhitelistAdd, "addToWhitelist", account)
}

// RemoveFromList removes account from the given membership list.
func (p *Panel) RemoveFromList(kind ListKind, account string) (*Task, error) {
	if kind == ListBlacklist {
		return p.submitAddr(KindBlacklistRemove, "removeFromBlacklist", account)
	}
	return p.submitAddr(KindWhitelistRemove, "removeFromWhitelist", account)
}

// SetWhitelistEnabled toggles whitelist enforcement.
func (p *Panel) SetWhitelistEnabled(enabled bool) (*Task, error) {
	arg := "false"
	if enabled {
		arg = "true"
	}
	return p.ctrl.Submit(KindSetWhitelistEnabled, func() (string, error) {
		return p.writer.Send(p.addr, "setWhitelistEnabled", arg)
	})
}

// RenounceOwnership permanently gives up the owner role. Callers are
// expected to confirm with the user first.
func (p *Panel) RenounceOwnership() (*Task, error) {
	return p.submitPlain(KindRenounceOwnership, "renounceOwnership")
}

func (p *Panel) submitPlain(kind Kind, fn string) (*Task, error) {
	return p.ctrl.Submit(kind, func() (string, error) {
		return p.writer.Send(p.addr, fn)
	})
}

func (p *Panel) submitAddr(kind Kind, fn, account string) (*Task, error) {
	return p.ctrl.Submit(kind, func() (string, error) {
		return p.writer.Send(p.addr, fn, account)
	})
}

func (p *Panel) scaleAmount(amount string) (string, error) {
	p.mu.Lock()
	desc := p.desc
	p.mu.Unlock()
	if desc == nil {
		return "", ErrNoDescriptor
	}
	scaled, err := chain.ParseUnits(amount, desc.Decimals)
	if err != nil {
		return "", err
	}
	if scaled.Sign() <= 0 {
		return "", fmt.Errorf("amount must be positive, got %q", amount)
	}
	return scaled.String(), nil
}

// Refreshed yields a signal after each post-confirmation re-read
// completes, so callers can read fresh state without guessing at the
// settle timing.
func (p *Panel) Refreshed() <-chan struct{} {
	return p.refreshed
}

// refreshAfter routes the post-confirmation re-read by operation kind.
func (p *Panel) refreshAfter(kind Kind) {
	switch kind {
	case KindWhitelistAdd, KindWhitelistRemove,
		KindBlacklistAdd, KindBlacklistRemove:
		p.syncer.RefreshAfter(kind)
	default:
		if desc, err := p.reader.Load(p.addr); err == nil {
			p.mu.Lock()
			p.desc = desc
			p.mu.Unlock()
		}
	}

	select {
	case p.refreshed <- struct{}{}:
	default:
	}
}
