package wizard

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tokenforge/tokenforge/internal/token"
	"github.com/tokenforge/tokenforge/internal/ui"
)

// SnapshotFunc takes the just-in-time precondition reads.
type SnapshotFunc func() (Snapshot, error)

// SubmitFunc performs the actual creation: submit createToken, wait for
// the receipt, decode the creation event. Returns the new address.
type SubmitFunc func(form Form, scaledSupply string) (string, error)

type createdMsg struct{ addr string }
type failedMsg struct{ msg string }

// Details-step fields, in focus order.
const (
	fieldName = iota
	fieldSymbol
	fieldSupply
	fieldMintable
	fieldBurnable
	fieldContinue
	fieldCount
)

// Model is the bubbletea wrapper around the wizard machine. All state
// transitions live in the machine; the model only collects keystrokes
// and runs the submission as a command.
type Model struct {
	machine  *Machine
	snapshot SnapshotFunc
	submit   SubmitFunc

	focus    int
	inputs   [3]string
	mintable bool
	burnable bool
	quitting bool
}

// NewModel creates a wizard model.
func NewModel(cfg token.Config, snapshot SnapshotFunc, submit SubmitFunc) Model {
	return Model{
		machine:  NewMachine(cfg),
		snapshot: snapshot,
		submit:   submit,
	}
}

// Machine exposes the underlying state machine, mainly for the caller
// to read the outcome after the program finishes.
func (m Model) Machine() *Machine { return m.machine }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case createdMsg:
		m.machine.Complete(msg.addr) //nolint:errcheck
		return m, nil

	case failedMsg:
		m.machine.Fail(msg.msg)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.machine.Step() {
		case StepDetails:
			return m.updateDetails(msg)
		case StepReview:
			return m.updateReview(msg)
		case StepSuccess:
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) updateDetails(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "shift+tab":
		if m.focus > 0 {
			m.focus--
		}

	case "down", "tab":
		if m.focus < fieldCount-1 {
			m.focus++
		}

	case "enter":
		if m.focus != fieldContinue {
			m.focus++
			return m, nil
		}
		m.machine.SetForm(m.currentForm())
		m.machine.Next() //nolint:errcheck

	case " ":
		switch m.focus {
		case fieldMintable:
			m.mintable = !m.mintable
		case fieldBurnable:
			m.burnable = !m.burnable
		}

	case "backspace":
		if m.focus <= fieldSupply && len(m.inputs[m.focus]) > 0 {
			m.inputs[m.focus] = m.inputs[m.focus][:len(m.inputs[m.focus])-1]
		}

	case "q", "esc":
		m.quitting = true
		return m, tea.Quit

	default:
		if m.focus <= fieldSupply && len(msg.String()) == 1 {
			m.inputs[m.focus] += msg.String()
		}
	}
	return m, nil
}

func (m Model) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.machine.Submitting() {
		return m, nil
	}

	switch msg.String() {
	case "enter":
		snap, err := m.snapshot()
		if err != nil {
			m.machine.Fail("could not check preconditions: " + err.Error())
			return m, nil
		}
		if err := m.machine.BeginSubmit(snap); err != nil {
			return m, nil // gate message already recorded
		}
		form := m.machine.Form()
		scaled := m.machine.ScaledSupply()
		return m, func() tea.Msg {
			addr, err := m.submit(form, scaled)
			if err != nil {
				return failedMsg{msg: err.Error()}
			}
			return createdMsg{addr: addr}
		}

	case "b", "esc":
		m.machine.Back() //nolint:errcheck

	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) currentForm() Form {
	return Form{
		Name:     m.inputs[fieldName],
		Symbol:   m.inputs[fieldSymbol],
		Supply:   m.inputs[fieldSupply],
		Mintable: m.mintable,
		Burnable: m.burnable,
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	switch m.machine.Step() {
	case StepDetails:
		return m.viewDetails()
	case StepReview:
		return m.viewReview()
	case StepSuccess:
		return m.viewSuccess()
	}
	return ""
}

func (m Model) viewDetails() string {
	s := ui.StyleTitle.Render("Create a new token") + "\n\n"
	s += m.textField("Name", m.inputs[fieldName], fieldName)
	s += m.textField("Symbol", m.inputs[fieldSymbol], fieldSymbol)
	s += m.textField("Initial supply", m.inputs[fieldSupply], fieldSupply)
	s += m.toggleField("Mintable", m.mintable, fieldMintable)
	s += m.toggleField("Burnable", m.burnable, fieldBurnable)

	cont := "  Continue"
	if m.focus == fieldContinue {
		cont = ui.StyleSelected.Render("▸ Continue")
	}
	s += "\n" + cont + "\n"

	if msg := m.machine.ErrorMessage(); msg != "" {
		s += "\n" + ui.Err(msg) + "\n"
	}
	s += "\n" + ui.Meta("tab/↑↓ move · space toggle · enter continue · esc quit")
	return ui.StyleBorder.Render(s) + "\n"
}

func (m Model) textField(label, value string, idx int) string {
	cursor := "  "
	suffix := ""
	if m.focus == idx {
		cursor = "▸ "
		suffix = "█"
	}
	return fmt.Sprintf("%s%s %s%s\n",
		cursor, ui.Meta(fmt.Sprintf("%-15s", label+":")), ui.Val(value), suffix)
}

func (m Model) toggleField(label string, on bool, idx int) string {
	cursor := "  "
	if m.focus == idx {
		cursor = "▸ "
	}
	box := "[ ]"
	if on {
		box = ui.Success("[x]")
	}
	return fmt.Sprintf("%s%s %s\n", cursor, ui.Meta(fmt.Sprintf("%-15s", label+":")), box)
}

func (m Model) viewReview() string {
	form := m.machine.Form()
	flag := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}

	s := ui.StyleTitle.Render("Review") + "\n\n"
	s += "  " + ui.Meta(fmt.Sprintf("%-15s", "Name:")) + " " + ui.Val(form.Name) + "\n"
	s += "  " + ui.Meta(fmt.Sprintf("%-15s", "Symbol:")) + " " + ui.Val(form.Symbol) + "\n"
	s += "  " + ui.Meta(fmt.Sprintf("%-15s", "Supply:")) + " " + ui.Val(form.Supply) + "\n"
	s += "  " + ui.Meta(fmt.Sprintf("%-15s", "Mintable:")) + " " + ui.Val(flag(form.Mintable)) + "\n"
	s += "  " + ui.Meta(fmt.Sprintf("%-15s", "Burnable:")) + " " + ui.Val(flag(form.Burnable)) + "\n"

	if m.machine.Submitting() {
		s += "\n" + ui.Warn("Creating token, waiting for confirmation...") + "\n"
	} else {
		if msg := m.machine.ErrorMessage(); msg != "" {
			s += "\n" + ui.Err(msg) + "\n"
		}
		s += "\n" + ui.Meta("enter create · b back · q quit")
	}
	return ui.StyleBorder.Render(s) + "\n"
}

func (m Model) viewSuccess() string {
	s := ui.Success("Token created!") + "\n\n"
	s += "  " + ui.Meta("Address:") + " " + ui.Addr(m.machine.CreatedAddress()) + "\n"
	s += "\n" + ui.Meta("press any key to exit")
	return ui.StyleBorder.Render(s) + "\n"
}

// Run launches the interactive creation wizard and returns the final
// machine state.
func Run(cfg token.Config, snapshot SnapshotFunc, submit SubmitFunc) (*Machine, error) {
	p := tea.NewProgram(NewModel(cfg, snapshot, submit))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("wizard error: %w", err)
	}
	return final.(Model).Machine(), nil
}
