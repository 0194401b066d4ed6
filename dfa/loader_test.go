// ABOUTME: Tests for the line-oriented automaton loader.
// ABOUTME: Covers the documented example, each malformed-structure case, missing sections, and file loading.
package dfa

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
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

func mustParse(t *testing.T, src string) *Automaton {
	t.Helper()
	a, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return a
}

func TestParseExample(t *testing.T) {
	a := mustParse(t, exampleSource)

	if got := strings.Join(a.Alphabet(), ","); got != "a,b" {
		t.Errorf("alphabet = %q, want %q", got, "a,b")
	}
	if got := strings.Join(a.States(), ","); got != "q0,q1,q2,q3" {
		t.Errorf("states = %q, want %q", got, "q0,q1,q2,q3")
	}
	if got := strings.Join(a.FinalStates(), ","); got != "q0,q3" {
		t.Errorf("final states = %q, want %q", got, "q0,q3")
	}
	if a.InitialState() != "q0" {
		t.Errorf("initial = %q, want q0", a.InitialState())
	}
	rules := a.Rules()
	if len(rules) != 8 {
		t.Fatalf("expected 8 rules, got %d", len(rules))
	}
	if rules[0] != (Rule{From: "q0", Symbol: "a", To: "q1"}) {
		t.Errorf("rules[0] = %+v", rules[0])
	}
	if rules[7] != (Rule{From: "q3", Symbol: "b", To: "q2"}) {
		t.Errorf("rules[7] = %+v", rules[7])
	}
}

func TestParseNoTransitions(t *testing.T) {
	a := mustParse(t, "a\nq0\nq0\nq0\n")
	if len(a.Rules()) != 0 {
		t.Errorf("expected no rules, got %d", len(a.Rules()))
	}
}

func TestParseIgnoresExtraRuleTokensAndBlankLines(t *testing.T) {
	a := mustParse(t, "a\nq0 q1\nq1\nq0\n\nq0 a q1 trailing tokens\n\n")
	rules := a.Rules()
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rules))
	}
	if rules[0] != (Rule{From: "q0", Symbol: "a", To: "q1"}) {
		t.Errorf("rule = %+v", rules[0])
	}
}

func TestParseCRLF(t *testing.T) {
	src := strings.ReplaceAll(exampleSource, "\n", "\r\n")
	a := mustParse(t, src)
	if a.InitialState() != "q0" {
		t.Errorf("initial = %q, want q0", a.InitialState())
	}
	if len(a.Rules()) != 8 {
		t.Errorf("expected 8 rules, got %d", len(a.Rules()))
	}
}

func TestParseToleratesDuplicateDeclarations(t *testing.T) {
	a := mustParse(t, "a a b\nq0 q0 q1\nq1 q1\nq0\nq0 a q1\n")
	if len(a.Alphabet()) != 3 {
		t.Errorf("expected duplicate symbols kept, got %v", a.Alphabet())
	}
	if len(a.States()) != 3 {
		t.Errorf("expected duplicate states kept, got %v", a.States())
	}
	if len(a.FinalStates()) != 2 {
		t.Errorf("expected duplicate finals kept, got %v", a.FinalStates())
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
		wantText string
	}{
		{"unknown final state", "a b\nq0 q1\nq0 q9\nq0\n", 3, `"q9"`},
		{"unknown initial state", "a b\nq0 q1\nq0\nq7\n", 4, `"q7"`},
		{"missing initial state", "a b\nq0 q1\nq0", 4, "missing"},
		{"missing final states", "a b\nq0 q1", 3, "missing"},
		{"missing states", "a b", 2, "missing"},
		{"empty input", "", 2, "missing"},
		{"rule too short", "a\nq0\nq0\nq0\nq0 a\n", 5, "at least 3"},
		{"rule unknown origin", "a\nq0\nq0\nq0\nqx a q0\n", 5, `"qx"`},
		{"rule unknown symbol", "a\nq0\nq0\nq0\nq0 z q0\n", 5, `"z"`},
		{"rule unknown destination", "a\nq0\nq0\nq0\nq0 a qy\n", 5, `"qy"`},
		{"double space inside rule", "a\nq0\nq0\nq0\nq0  a q0\n", 5, `""`},
		{"empty final line", "a\nq0\n\nq0\n", 3, `""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("expected error, got automaton %+v", a)
			}
			if a != nil {
				t.Error("expected nil automaton on failure")
			}
			if !errors.Is(err, ErrMalformedStructure) {
				t.Errorf("expected ErrMalformedStructure, got %v", err)
			}
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("expected *LoadError, got %T", err)
			}
			if le.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", le.Line, tt.wantLine)
			}
			if !strings.Contains(err.Error(), tt.wantText) {
				t.Errorf("error %q should mention %s", err.Error(), tt.wantText)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.txt")
	if err := os.WriteFile(path, []byte(exampleSource), 0o644); err != nil {
		t.Fatal(err)
	}
	a, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(a.Rules()) != 8 {
		t.Errorf("expected 8 rules, got %d", len(a.Rules()))
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("expected ErrSourceNotFound, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected underlying fs.ErrNotExist, got %v", err)
	}
}

func TestReadFromReader(t *testing.T) {
	a, err := Read(strings.NewReader(exampleSource))
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if a.InitialState() != "q0" {
		t.Errorf("initial = %q, want q0", a.InitialState())
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	a := mustParse(t, exampleSource)
	states := a.States()
	states[0] = "mutated"
	rules := a.Rules()
	rules[0].To = "mutated"

	if a.States()[0] != "q0" {
		t.Error("States() must not expose internal storage")
	}
	if a.Rules()[0].To != "q1" {
		t.Error("Rules() must not expose internal storage")
	}
}
