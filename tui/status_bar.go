// ABOUTME: Implements a single-line status bar for the bottom of the word tester.
// ABOUTME: Displays the automaton name, its size, and outcome totals for submitted words.
package tui

import (
	"fmt"

	"github.com/2389-research/automata/dfa"
	"github.com/charmbracelet/lipgloss"
)

// StatusBarModel displays automaton and session totals in a single line.
type StatusBarModel struct {
	name   string
	states int
	rules  int
	counts map[dfa.Outcome]int
	width  int
}

// NewStatusBarModel creates a status bar for the named automaton.
func NewStatusBarModel(name string, states, rules int) StatusBarModel {
	return StatusBarModel{name: name, states: states, rules: rules, counts: map[dfa.Outcome]int{}}
}

// SetCounts replaces the outcome totals.
func (m *StatusBarModel) SetCounts(counts map[dfa.Outcome]int) {
	m.counts = counts
}

// SetWidth sets the bar width for rendering.
func (m *StatusBarModel) SetWidth(w int) {
	m.width = w
}

// View renders the status bar as a single styled line.
func (m StatusBarModel) View() string {
	content := fmt.Sprintf("Automaton: %s | %d states, %d rules | %d %s %d %s %d %s | enter: submit  esc: quit",
		m.name, m.states, m.rules,
		m.counts[dfa.Accepted], dfa.Accepted,
		m.counts[dfa.Rejected], dfa.Rejected,
		m.counts[dfa.Invalid], dfa.Invalid)

	style := StatusBarStyle.Width(m.width)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Left, style.Render(content))
}
