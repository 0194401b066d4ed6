// ABOUTME: Top-level Bubble Tea AppModel for the interactive word tester.
// ABOUTME: Implements tea.Model (Init, Update, View) and routes messages to the input, history, and status bar.
package tui

import (
	"fmt"
	"strings"

	"github.com/2389-research/automata/dfa"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AppModel composes the word input, the automaton summary, the history
// panel, and the status bar.
type AppModel struct {
	input     WordInputModel
	history   HistoryPanelModel
	statusBar StatusBarModel

	automaton *dfa.Automaton
	name      string
	width     int
	height    int
}

// NewAppModel creates an AppModel for the named automaton.
func NewAppModel(name string, a *dfa.Automaton) AppModel {
	return AppModel{
		input:     NewWordInputModel(a),
		history:   NewHistoryPanelModel(200),
		statusBar: NewStatusBarModel(name, len(a.UniqueStates()), len(a.Rules())),
		automaton: a,
		name:      name,
	}
}

// Run starts the program on the alternate screen and blocks until the user quits.
func Run(name string, a *dfa.Automaton) error {
	if _, err := tea.NewProgram(NewAppModel(name, a), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// History returns the submitted words, oldest first.
func (m AppModel) History() []dfa.Trace {
	return m.history.Entries()
}

// Init implements tea.Model.
func (m AppModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m AppModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		m.history.Append(m.input.Submit())
		m.statusBar.SetCounts(m.history.Counts())
		return m, nil
	case tea.KeyPgUp, tea.KeyPgDown:
		m.history = m.history.Update(msg)
		return m, nil
	}

	m.input = m.input.Update(msg)
	return m, nil
}

// View implements tea.Model.
func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.width < 40 || m.height < 12 {
		return fmt.Sprintf("Terminal too small (%dx%d). Minimum: 40x12.", m.width, m.height)
	}

	inputView := m.input.View()
	inputHeight := lipgloss.Height(inputView)

	statusBarHeight := 1
	bodyHeight := m.height - inputHeight - statusBarHeight - 1
	if bodyHeight < 4 {
		bodyHeight = 4
	}

	summaryWidth := m.width * 35 / 100
	if summaryWidth < 20 {
		summaryWidth = 20
	}
	historyWidth := m.width - summaryWidth
	if historyWidth < 10 {
		historyWidth = 10
	}

	m.history.SetSize(historyWidth, bodyHeight)
	m.statusBar.SetWidth(m.width)

	summary := BorderStyle.
		Width(summaryWidth - 2).
		Height(bodyHeight - 2).
		Render(m.summaryView())
	body := lipgloss.JoinHorizontal(lipgloss.Top, summary, m.history.View())

	var b strings.Builder
	b.WriteString(inputView)
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.statusBar.View())
	return b.String()
}

func (m AppModel) summaryView() string {
	rows := []struct{ label, value string }{
		{"alphabet", strings.Join(m.automaton.Alphabet(), " ")},
		{"states", strings.Join(m.automaton.States(), " ")},
		{"finals", strings.Join(m.automaton.FinalStates(), " ")},
		{"initial", m.automaton.InitialState()},
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(strings.ToUpper(m.name)))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(LabelStyle.Render(r.label))
		b.WriteString(ValueStyle.Render(r.value))
		b.WriteString("\n")
	}
	return b.String()
}
