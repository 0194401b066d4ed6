// ABOUTME: WordInputModel wraps a bubbles textinput and evaluates the typed word live against the automaton.
// ABOUTME: Renders the input box with the current outcome and the step-by-step trace underneath.
package tui

import (
	"fmt"
	"strings"

	"github.com/2389-research/automata/dfa"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// WordInputModel is the text input sub-model. The trace is recomputed on every
// edit so the view always reflects what is typed.
type WordInputModel struct {
	textInput textinput.Model
	automaton *dfa.Automaton
	trace     dfa.Trace
}

// NewWordInputModel creates a focused input bound to a.
func NewWordInputModel(a *dfa.Automaton) WordInputModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a word..."
	ti.Focus()

	m := WordInputModel{textInput: ti, automaton: a}
	m.refresh()
	return m
}

// Value returns the word currently typed.
func (m WordInputModel) Value() string {
	return m.textInput.Value()
}

// Trace returns the evaluation of the current word.
func (m WordInputModel) Trace() dfa.Trace {
	return m.trace
}

// SetValue replaces the typed word and re-evaluates it.
func (m *WordInputModel) SetValue(word string) {
	m.textInput.SetValue(word)
	m.refresh()
}

// Submit returns the trace for the current word and clears the input.
func (m *WordInputModel) Submit() dfa.Trace {
	t := m.trace
	m.textInput.Reset()
	m.refresh()
	return t
}

// Update forwards key events to the embedded textinput and re-evaluates.
func (m WordInputModel) Update(msg tea.Msg) WordInputModel {
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	_ = cmd // cursor blink cmds are ignored in sub-model updates
	m.refresh()
	return m
}

func (m *WordInputModel) refresh() {
	if m.automaton == nil {
		m.trace = dfa.Trace{}
		return
	}
	m.trace = m.automaton.Trace(m.textInput.Value())
}

// View renders the input, the live outcome, and the trace path.
func (m WordInputModel) View() string {
	var b strings.Builder
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")
	if m.automaton != nil {
		b.WriteString(StyleForOutcome(m.trace.Outcome).Render(string(m.trace.Outcome)))
		b.WriteString("  ")
		b.WriteString(FormatTrace(m.trace))
	}
	return InputStyle.Render(b.String())
}

// FormatTrace renders a trace as "q0 -a-> q1 -b-> q3", followed by the
// offending character when scanning stopped early.
func FormatTrace(t dfa.Trace) string {
	start := t.State
	if len(t.Steps) > 0 {
		start = t.Steps[0].From
	}

	var b strings.Builder
	b.WriteString(StateStyle.Render(start))
	for _, s := range t.Steps {
		b.WriteString(SymbolStyle.Render(fmt.Sprintf(" -%s-> ", s.Symbol)))
		b.WriteString(StateStyle.Render(s.To))
	}
	if t.Halt >= 0 {
		reason := "no transition on"
		if t.Outcome == dfa.Invalid {
			reason = "not in alphabet:"
		}
		b.WriteString("  ")
		b.WriteString(HaltStyle.Render(fmt.Sprintf("%s %q at %d", reason, t.Symbol, t.Halt)))
	}
	return b.String()
}
