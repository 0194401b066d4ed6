// ABOUTME: Tests for the word tester AppModel and its input, history, and status bar sub-models.
// ABOUTME: Covers live evaluation, submission, history counts, quitting, and view rendering.
package tui

import (
	"strings"
	"testing"

	"github.com/2389-research/automata/dfa"
	tea "github.com/charmbracelet/bubbletea"
)

const exampleSource = `a b
q0 q1 q2 q3
q0 q3
q0
q0 a q1
q0 b q2
q1 a q0
q1 b q3
q2 a q3
q2 b q0
q3 a q1
q3 b q2
`

func testAutomaton(t *testing.T) *dfa.Automaton {
	t.Helper()
	a, err := dfa.Parse(exampleSource)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return a
}

func typeWord(m AppModel, word string) AppModel {
	for _, r := range word {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(AppModel)
	}
	return m
}

func pressEnter(m AppModel) AppModel {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(AppModel)
}

func TestWordInputLiveEvaluation(t *testing.T) {
	a := testAutomaton(t)
	m := NewWordInputModel(a)

	if m.Trace().Outcome != dfa.Accepted {
		t.Errorf("empty word: expected %s, got %s", dfa.Accepted, m.Trace().Outcome)
	}

	tests := []struct {
		word string
		want dfa.Outcome
	}{
		{"a", dfa.Rejected},
		{"ab", dfa.Accepted},
		{"abc", dfa.Invalid},
	}
	for _, tt := range tests {
		m.SetValue(tt.word)
		if got := m.Trace().Outcome; got != tt.want {
			t.Errorf("word %q: expected %s, got %s", tt.word, tt.want, got)
		}
	}
}

func TestWordInputSubmitClears(t *testing.T) {
	m := NewWordInputModel(testAutomaton(t))
	m.SetValue("ab")

	tr := m.Submit()
	if tr.Word != "ab" || tr.Outcome != dfa.Accepted {
		t.Errorf("unexpected submitted trace: %+v", tr)
	}
	if m.Value() != "" {
		t.Errorf("expected input to be cleared, got %q", m.Value())
	}
}

func TestFormatTrace(t *testing.T) {
	a := testAutomaton(t)

	tests := []struct {
		word     string
		contains []string
	}{
		{"", []string{"q0"}},
		{"ab", []string{"q0", "-a->", "q1", "-b->", "q3"}},
		{"abc", []string{"-b->", "not in alphabet:", `"c"`, "at 2"}},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got := FormatTrace(a.Trace(tt.word))
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("FormatTrace(%q) = %q, missing %q", tt.word, got, want)
				}
			}
		})
	}
}

func TestAppModelTypingAndSubmit(t *testing.T) {
	m := NewAppModel("example", testAutomaton(t))

	m = typeWord(m, "ab")
	if m.input.Value() != "ab" {
		t.Fatalf("expected typed value %q, got %q", "ab", m.input.Value())
	}
	if m.input.Trace().Outcome != dfa.Accepted {
		t.Errorf("expected live outcome %s, got %s", dfa.Accepted, m.input.Trace().Outcome)
	}

	m = pressEnter(m)
	m = typeWord(m, "abc")
	m = pressEnter(m)
	m = pressEnter(m) // empty word

	hist := m.History()
	if len(hist) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(hist))
	}
	wantWords := []string{"ab", "abc", ""}
	for i, w := range wantWords {
		if hist[i].Word != w {
			t.Errorf("history[%d] = %q, want %q", i, hist[i].Word, w)
		}
	}

	counts := m.history.Counts()
	if counts[dfa.Accepted] != 2 || counts[dfa.Invalid] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestAppModelQuitKeys(t *testing.T) {
	m := NewAppModel("example", testAutomaton(t))

	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		_, cmd := m.Update(tea.KeyMsg{Type: key})
		if cmd == nil {
			t.Fatalf("key %v: expected quit command", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("key %v: expected tea.QuitMsg", key)
		}
	}
}

func TestAppModelView(t *testing.T) {
	m := NewAppModel("example", testAutomaton(t))

	if got := m.View(); got != "Initializing..." {
		t.Errorf("expected initializing view, got %q", got)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})
	if got := next.(AppModel).View(); !strings.Contains(got, "Terminal too small") {
		t.Errorf("expected size guard, got %q", got)
	}

	next, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m = next.(AppModel)
	m = typeWord(m, "ab")
	m = pressEnter(m)

	view := m.View()
	for _, want := range []string{"EXAMPLE", "alphabet", "HISTORY", "ab: ", "ACEITA", "Automaton: example"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestHistoryPanelEviction(t *testing.T) {
	h := NewHistoryPanelModel(2)
	for _, w := range []string{"a", "b", "c"} {
		h.Append(dfa.Trace{Word: w, Outcome: dfa.Rejected, Halt: -1})
	}
	if h.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", h.Len())
	}
	if got := h.Entries()[0].Word; got != "b" {
		t.Errorf("expected oldest entry to be evicted, first is %q", got)
	}
}

func TestStatusBarView(t *testing.T) {
	s := NewStatusBarModel("example", 4, 8)
	s.SetCounts(map[dfa.Outcome]int{dfa.Accepted: 2, dfa.Invalid: 1})
	s.SetWidth(200)

	view := s.View()
	for _, want := range []string{"Automaton: example", "4 states, 8 rules", "2 ACEITA", "0 REJEITA", "1 INVALIDA"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected status bar to contain %q, got %q", want, view)
		}
	}
}

func TestStyleForOutcome(t *testing.T) {
	if StyleForOutcome(dfa.Accepted).GetForeground() != AcceptedStyle.GetForeground() {
		t.Error("expected accepted style")
	}
	if StyleForOutcome(dfa.Invalid).GetForeground() != InvalidStyle.GetForeground() {
		t.Error("expected invalid style")
	}
}
