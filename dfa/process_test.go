// ABOUTME: Tests for the word processor covering the three outcomes, early halting, and tie-breaking.
// ABOUTME: Also exercises the boundary-typed and parallel entry points and the integrity checks.
package dfa

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestProcessExampleWords(t *testing.T) {
	a := mustParse(t, exampleSource)
	tests := []struct {
		word string
		want Outcome
	}{
		{"aab", Rejected},
		{"ab", Accepted},
		{"ac", Invalid},
		{"", Accepted},
		{"a", Rejected},
		{"abab", Accepted},
		{"abba", Accepted},
		{"ca", Invalid},
		{"ab c", Invalid},
	}

	words := make([]string, 0, len(tests))
	for _, tt := range tests {
		words = append(words, tt.word)
	}
	result, err := Process(a, words)
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if len(result) != len(tests) {
		t.Fatalf("expected %d entries, got %d", len(tests), len(result))
	}
	for _, tt := range tests {
		if got := result[tt.word]; got != tt.want {
			t.Errorf("result[%q] = %s, want %s", tt.word, got, tt.want)
		}
	}
}

func TestOutcomeLabels(t *testing.T) {
	if Accepted != "ACEITA" || Rejected != "REJEITA" || Invalid != "INVALIDA" {
		t.Errorf("labels changed: %s %s %s", Accepted, Rejected, Invalid)
	}
}

func TestEmptyWordFollowsInitialState(t *testing.T) {
	accepting := mustParse(t, "a\nq0 q1\nq0\nq0\n")
	if got := accepting.Evaluate(""); got != Accepted {
		t.Errorf("empty word with final initial = %s, want %s", got, Accepted)
	}
	rejecting := mustParse(t, "a\nq0 q1\nq1\nq0\n")
	if got := rejecting.Evaluate(""); got != Rejected {
		t.Errorf("empty word with non-final initial = %s, want %s", got, Rejected)
	}
}

func TestInvalidRegardlessOfPosition(t *testing.T) {
	a := mustParse(t, exampleSource)
	for _, w := range []string{"xab", "axb", "abx", "aaaaaaaaaaaz"} {
		if got := a.Evaluate(w); got != Invalid {
			t.Errorf("Evaluate(%q) = %s, want %s", w, got, Invalid)
		}
	}
}

func TestRejectStopsAtFirstMissingTransition(t *testing.T) {
	// q1 has no rule for b; the trailing z is never scanned.
	a := mustParse(t, "a b\nq0 q1\nq1\nq0\nq0 a q1\n")

	tr := a.Trace("abz")
	if tr.Outcome != Rejected {
		t.Errorf("outcome = %s, want %s", tr.Outcome, Rejected)
	}
	if tr.Halt != 1 || tr.Symbol != "b" {
		t.Errorf("halt = %d symbol = %q, want 1 %q", tr.Halt, tr.Symbol, "b")
	}
	if tr.State != "q1" {
		t.Errorf("state = %q, want q1", tr.State)
	}
	if len(tr.Steps) != 1 {
		t.Errorf("expected 1 step, got %d", len(tr.Steps))
	}
}

func TestInvalidTakesPrecedenceOnlyWhenReached(t *testing.T) {
	// The dead end at "b" is hit before the invalid "z".
	a := mustParse(t, "a b\nq0 q1\nq1\nq0\nq0 a q1\n")
	if got := a.Evaluate("bz"); got != Rejected {
		t.Errorf("Evaluate(bz) = %s, want %s", got, Rejected)
	}
	if got := a.Evaluate("zb"); got != Invalid {
		t.Errorf("Evaluate(zb) = %s, want %s", got, Invalid)
	}
}

func TestFirstMatchingRuleWins(t *testing.T) {
	a := mustParse(t, "a\nq0 q1 q2\nq1\nq0\nq0 a q1\nq0 a q2\n")
	if got := a.Evaluate("a"); got != Accepted {
		t.Errorf("Evaluate(a) = %s, want %s (first rule to q1)", got, Accepted)
	}
	b := mustParse(t, "a\nq0 q1 q2\nq1\nq0\nq0 a q2\nq0 a q1\n")
	if got := b.Evaluate("a"); got != Rejected {
		t.Errorf("Evaluate(a) = %s, want %s (first rule to q2)", got, Rejected)
	}
}

func TestTraceExample(t *testing.T) {
	a := mustParse(t, exampleSource)
	tr := a.Trace("aab")
	want := []Step{
		{From: "q0", Symbol: "a", To: "q1"},
		{From: "q1", Symbol: "a", To: "q0"},
		{From: "q0", Symbol: "b", To: "q2"},
	}
	if !reflect.DeepEqual(tr.Steps, want) {
		t.Errorf("steps = %+v, want %+v", tr.Steps, want)
	}
	if tr.State != "q2" || tr.Outcome != Rejected || tr.Halt != -1 {
		t.Errorf("trace = %+v", tr)
	}
}

func TestMultiByteCharacters(t *testing.T) {
	a := mustParse(t, "é ü\ns t\nt\ns\ns é t\nt ü s\n")
	if got := a.Evaluate("é"); got != Accepted {
		t.Errorf("Evaluate(é) = %s, want %s", got, Accepted)
	}
	tr := a.Trace("éüx")
	if tr.Outcome != Invalid || tr.Halt != 2 || tr.Symbol != "x" {
		t.Errorf("trace = %+v", tr)
	}
}

func TestMultiCharacterSymbolNeverMatches(t *testing.T) {
	a := mustParse(t, "ab\nq0 q1\nq1\nq0\nq0 ab q1\n")
	if got := a.Evaluate("ab"); got != Invalid {
		t.Errorf("Evaluate(ab) = %s, want %s", got, Invalid)
	}
}

func TestProcessIdempotent(t *testing.T) {
	a := mustParse(t, exampleSource)
	words := []string{"ab", "aab", "ac", "", "abba"}
	first, err := Process(a, words)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Process(a, words)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ: %v vs %v", first, second)
	}
}

func TestProcessDuplicateWords(t *testing.T) {
	a := mustParse(t, exampleSource)
	result, err := Process(a, []string{"ab", "ab"})
	if err != nil {
		t.Fatal(err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(result))
	}
	if result["ab"] != Accepted {
		t.Errorf("result[ab] = %s, want %s", result["ab"], Accepted)
	}
}

func TestProcessEmptyList(t *testing.T) {
	a := mustParse(t, exampleSource)
	result, err := Process(a, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result) != 0 {
		t.Errorf("expected empty result, got %v", result)
	}
}

func TestProcessStructuralIntegrity(t *testing.T) {
	for name, a := range map[string]*Automaton{"nil": nil, "zero": {}} {
		t.Run(name, func(t *testing.T) {
			_, err := Process(a, []string{"a"})
			if !errors.Is(err, ErrStructuralIntegrity) {
				t.Errorf("expected ErrStructuralIntegrity, got %v", err)
			}
			_, err = ProcessParallel(context.Background(), a, []string{"a"}, 2)
			if !errors.Is(err, ErrStructuralIntegrity) {
				t.Errorf("parallel: expected ErrStructuralIntegrity, got %v", err)
			}
		})
	}
}

func TestProcessValuesTypeMismatch(t *testing.T) {
	a := mustParse(t, exampleSource)
	_, err := ProcessValues(a, []any{"ab", 42, "aab"})
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}

	result, err := ProcessValues(a, []any{"ab", "ac"})
	if err != nil {
		t.Fatalf("ProcessValues error: %v", err)
	}
	if result["ab"] != Accepted || result["ac"] != Invalid {
		t.Errorf("result = %v", result)
	}
}

func TestProcessParallelMatchesSequential(t *testing.T) {
	a := mustParse(t, exampleSource)
	var words []string
	for i := 0; i < 200; i++ {
		words = append(words, fmt.Sprintf("%b", i))
		words = append(words, fmt.Sprintf("a%sb", words[len(words)-1]))
	}
	// Binary strings use 0/1 which are outside the alphabet; mix in valid ones too.
	words = append(words, "ab", "abba", "aab", "", "ab")

	want, err := Process(a, words)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ProcessParallel(context.Background(), a, words, 8)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parallel result differs from sequential")
	}
}

func TestProcessParallelCancelled(t *testing.T) {
	a := mustParse(t, exampleSource)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ProcessParallel(ctx, a, []string{"ab", "aab"}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestResultCount(t *testing.T) {
	r := Result{"a": Accepted, "b": Rejected, "c": Accepted}
	if r.Count(Accepted) != 2 || r.Count(Rejected) != 1 || r.Count(Invalid) != 0 {
		t.Errorf("unexpected counts for %v", r)
	}
}
