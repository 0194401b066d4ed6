// ABOUTME: Implements a scrollable history of submitted words using the bubbles viewport component.
// ABOUTME: Each entry shows the word, its color-coded outcome, and its trace.
package tui

import (
	"fmt"
	"strings"

	"github.com/2389-research/automata/dfa"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// HistoryPanelModel is a bounded, scrollable list of evaluated words.
type HistoryPanelModel struct {
	entries  []dfa.Trace
	max      int
	viewport viewport.Model
	width    int
	height   int
}

// NewHistoryPanelModel creates a history panel holding at most maxEntries.
// If maxEntries is <= 0, it defaults to 200.
func NewHistoryPanelModel(maxEntries int) HistoryPanelModel {
	if maxEntries <= 0 {
		maxEntries = 200
	}
	return HistoryPanelModel{
		entries:  make([]dfa.Trace, 0, maxEntries),
		max:      maxEntries,
		viewport: viewport.New(80, 10),
	}
}

// Append adds a trace, evicting the oldest entry at capacity.
func (m *HistoryPanelModel) Append(t dfa.Trace) {
	if len(m.entries) >= m.max {
		m.entries = m.entries[1:]
	}
	m.entries = append(m.entries, t)
	m.syncViewport()
}

// Len returns the number of entries.
func (m HistoryPanelModel) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the history, oldest first.
func (m HistoryPanelModel) Entries() []dfa.Trace {
	return append([]dfa.Trace(nil), m.entries...)
}

// Counts tallies outcomes across the history.
func (m HistoryPanelModel) Counts() map[dfa.Outcome]int {
	counts := map[dfa.Outcome]int{}
	for _, t := range m.entries {
		counts[t.Outcome]++
	}
	return counts
}

// SetSize sets the available dimensions and updates the viewport.
func (m *HistoryPanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	// Reserve space for the border (2 lines) and title (1 line)
	vpWidth := w - 2
	vpHeight := h - 3
	if vpWidth < 1 {
		vpWidth = 1
	}
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = vpWidth
	m.viewport.Height = vpHeight
	m.syncViewport()
}

// Update scrolls the viewport.
func (m HistoryPanelModel) Update(msg tea.Msg) HistoryPanelModel {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	_ = cmd
	return m
}

// View renders the history panel.
func (m HistoryPanelModel) View() string {
	content := "No words yet"
	if len(m.entries) > 0 {
		content = m.viewport.View()
	}
	rendered := TitleStyle.Render("HISTORY") + "\n" + content

	return BorderStyle.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(rendered)
}

// syncViewport rebuilds the content and scrolls to the newest entry.
func (m *HistoryPanelModel) syncViewport() {
	lines := make([]string, 0, len(m.entries))
	for _, t := range m.entries {
		lines = append(lines, formatEntry(t))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

// formatEntry renders one history line as "word: LABEL  trace".
func formatEntry(t dfa.Trace) string {
	word := t.Word
	if word == "" {
		word = "(empty)"
	}
	return fmt.Sprintf("%s: %s  %s", word, StyleForOutcome(t.Outcome).Render(string(t.Outcome)), FormatTrace(t))
}
