// ABOUTME: Defines lipgloss style constants for the word tester panels, outcome labels, and trace formatting.
// ABOUTME: Provides StyleForOutcome to map dfa outcomes to their display styles.
package tui

import (
	"github.com/2389-research/automata/dfa"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Panel borders
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	// Title styling
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	// Outcome colors
	AcceptedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	RejectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	InvalidStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	// Trace rendering
	StateStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	SymbolStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	HaltStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Underline(true)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	// Summary labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(10)
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	// Word input
	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 1)
)

// StyleForOutcome returns the lipgloss style for an outcome label.
func StyleForOutcome(o dfa.Outcome) lipgloss.Style {
	switch o {
	case dfa.Accepted:
		return AcceptedStyle
	case dfa.Rejected:
		return RejectedStyle
	case dfa.Invalid:
		return InvalidStyle
	default:
		return ValueStyle
	}
}
