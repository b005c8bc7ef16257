package wizard

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/tokenforge/tokenforge/internal/chain"
	"github.com/tokenforge/tokenforge/internal/token"
)

// Step is the wizard's position.
type Step int

const (
	StepDetails Step = iota
	StepReview
	StepSuccess
)

func (s Step) String() string {
	switch s {
	case StepDetails:
		return "details"
	case StepReview:
		return "review"
	case StepSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// ErrPreconditionFailed blocks submission before any remote call.
var ErrPreconditionFailed = errors.New("precondition failed")

// Form holds the creation inputs as the user typed them.
type Form struct {
	Name     string
	Symbol   string
	Supply   string
	Mintable bool
	Burnable bool
}

// Snapshot carries the two just-in-time precondition reads: factory
// bytecode presence and the connected balance. Taken once right before
// submission, never re-checked continuously.
type Snapshot struct {
	FactoryHasCode bool
	BalanceWei     *big.Int
}

// Machine is the creation wizard's state machine: Details → Review →
// Success, with Review → Details as the only backward edge. It is pure
// apart from its own state; submission itself belongs to the caller.
type Machine struct {
	cfg        token.Config
	step       Step
	form       Form
	submitting bool
	created    string
	errMsg     string
}

// NewMachine starts a wizard at the Details step.
func NewMachine(cfg token.Config) *Machine {
	return &Machine{cfg: cfg}
}

// Step returns the current step.
func (m *Machine) Step() Step { return m.step }

// Form returns the current form values.
func (m *Machine) Form() Form { return m.form }

// SetForm replaces the form values. Only meaningful at Details.
func (m *Machine) SetForm(f Form) { m.form = f }

// Submitting reports whether a submission is in progress.
func (m *Machine) Submitting() bool { return m.submitting }

// CreatedAddress returns the new token's address, empty until Success.
func (m *Machine) CreatedAddress() string { return m.created }

// ErrorMessage returns the last gate or submission failure, if any.
func (m *Machine) ErrorMessage() string { return m.errMsg }

// ValidateDetails checks field presence: name, symbol, and a positive
// whole-number supply. No remote reads.
func (m *Machine) ValidateDetails() error {
	if strings.TrimSpace(m.form.Name) == "" {
		return errors.New("token name is required")
	}
	if strings.TrimSpace(m.form.Symbol) == "" {
		return errors.New("token symbol is required")
	}
	supply, ok := new(big.Int).SetString(strings.TrimSpace(m.form.Supply), 10)
	if !ok || supply.Sign() <= 0 {
		return fmt.Errorf("supply must be a positive whole number, got %q", m.form.Supply)
	}
	return nil
}

// Next advances Details → Review, gated on local validation only.
func (m *Machine) Next() error {
	if m.step != StepDetails {
		return fmt.Errorf("cannot advance from %s", m.step)
	}
	if err := m.ValidateDetails(); err != nil {
		m.errMsg = err.Error()
		return err
	}
	m.errMsg = ""
	m.step = StepReview
	return nil
}

// Back returns Review → Details, the only backward edge.
func (m *Machine) Back() error {
	if m.step != StepReview || m.submitting {
		return fmt.Errorf("cannot go back from %s", m.step)
	}
	m.step = StepDetails
	return nil
}

// BeginSubmit gates the actual submission on the snapshot preconditions:
// the factory must have deployed bytecode, and the balance must cover
// the creation fee. On success the machine is marked submitting; the
// caller then performs the remote write and reports back through
// Complete or Fail. No remote call happens when a gate fails.
func (m *Machine) BeginSubmit(snap Snapshot) error {
	if m.step != StepReview {
		return fmt.Errorf("cannot submit from %s", m.step)
	}
	if m.submitting {
		return errors.New("submission already in progress")
	}

	if !snap.FactoryHasCode {
		m.errMsg = "factory contract not found on this network, check your RPC endpoint"
		return fmt.Errorf("%w: %s", ErrPreconditionFailed, m.errMsg)
	}
	if snap.BalanceWei == nil || snap.BalanceWei.Cmp(m.cfg.CreationFeeWei) < 0 {
		have := "0"
		if snap.BalanceWei != nil {
			have = chain.FormatWei(snap.BalanceWei)
		}
		m.errMsg = fmt.Sprintf("insufficient funds: creation fee is %s, balance is %s",
			chain.FormatWei(m.cfg.CreationFeeWei), have)
		return fmt.Errorf("%w: %s", ErrPreconditionFailed, m.errMsg)
	}

	m.errMsg = ""
	m.submitting = true
	return nil
}

// ScaledSupply returns the supply argument for createToken: the entered
// supply times 10^18, regardless of what decimals the token declares.
func (m *Machine) ScaledSupply() string {
	supply, ok := new(big.Int).SetString(strings.TrimSpace(m.form.Supply), 10)
	if !ok {
		return "0"
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	return new(big.Int).Mul(supply, scale).String()
}

// Complete records the decoded token address and moves to Success.
// Terminal; the machine accepts no further transitions.
func (m *Machine) Complete(addr string) error {
	if m.step != StepReview || !m.submitting {
		return fmt.Errorf("cannot complete from %s", m.step)
	}
	m.submitting = false
	m.created = addr
	m.step = StepSuccess
	return nil
}

// Fail records a submission failure and returns the wizard to an
// idle Review so the user can retry or go back.
func (m *Machine) Fail(msg string) {
	m.submitting = false
	m.errMsg = msg
}

// Done reports whether the wizard reached its terminal state.
func (m *Machine) Done() bool {
	return m.step == StepSuccess && m.created != ""
}
