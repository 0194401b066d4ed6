// ABOUTME: Lint rules for loaded automata that flag tolerated-but-suspicious descriptions.
// ABOUTME: Provides a single Lint(a) function returning diagnostics for duplicates, nondeterminism, and reachability.
package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/2389-research/automata/dfa"
)

// Lint runs all lint rules on the automaton and returns any diagnostics found.
// None of the findings prevent evaluation; the loader already rejects
// descriptions that break referential integrity.
func Lint(a *dfa.Automaton) []dfa.Diagnostic {
	var diags []dfa.Diagnostic

	diags = append(diags, checkDuplicateSymbols(a)...)
	diags = append(diags, checkDuplicateStates(a)...)
	diags = append(diags, checkDuplicateFinals(a)...)
	diags = append(diags, checkSymbolWidth(a)...)
	diags = append(diags, checkNondeterminism(a)...)
	diags = append(diags, checkFinalStates(a)...)
	diags = append(diags, checkReachability(a)...)
	diags = append(diags, checkDeadStates(a)...)
	diags = append(diags, checkCompleteness(a)...)

	return diags
}

// HasErrors reports whether any diagnostic has severity "error".
func HasErrors(diags []dfa.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == "error" {
			return true
		}
	}
	return false
}

func duplicates(items []string) []string {
	seen := make(map[string]int)
	var dups []string
	for _, it := range items {
		seen[it]++
		if seen[it] == 2 {
			dups = append(dups, it)
		}
	}
	return dups
}

func checkDuplicateSymbols(a *dfa.Automaton) []dfa.Diagnostic {
	var diags []dfa.Diagnostic
	for _, s := range duplicates(a.Alphabet()) {
		diags = append(diags, dfa.Diagnostic{
			Severity: "warning",
			Message:  fmt.Sprintf("symbol %q is declared more than once", s),
			Symbol:   s,
			Rule:     "duplicate_symbol",
		})
	}
	return diags
}

func checkDuplicateStates(a *dfa.Automaton) []dfa.Diagnostic {
	var diags []dfa.Diagnostic
	for _, s := range duplicates(a.States()) {
		diags = append(diags, dfa.Diagnostic{
			Severity: "warning",
			Message:  fmt.Sprintf("state %q is declared more than once", s),
			State:    s,
			Rule:     "duplicate_state",
		})
	}
	return diags
}

func checkDuplicateFinals(a *dfa.Automaton) []dfa.Diagnostic {
	var diags []dfa.Diagnostic
	for _, s := range duplicates(a.FinalStates()) {
		diags = append(diags, dfa.Diagnostic{
			Severity: "info",
			Message:  fmt.Sprintf("final state %q is listed more than once", s),
			State:    s,
			Rule:     "duplicate_final",
		})
	}
	return diags
}

// checkSymbolWidth flags symbols that are not exactly one character. Words are
// scanned one character at a time, so such symbols can never be consumed.
func checkSymbolWidth(a *dfa.Automaton) []dfa.Diagnostic {
	var diags []dfa.Diagnostic
	for _, s := range a.Alphabet() {
		if utf8.RuneCountInString(s) == 1 {
			continue
		}
		diags = append(diags, dfa.Diagnostic{
			Severity: "warning",
			Message:  fmt.Sprintf("symbol %q is not a single character and can never match", s),
			Symbol:   s,
			Rule:     "symbol_width",
		})
	}
	return diags
}

// checkNondeterminism flags rules shadowed by an earlier rule for the same
// (state, symbol) pair. Identical repeats are reported as info.
func checkNondeterminism(a *dfa.Automaton) []dfa.Diagnostic {
	type key struct{ from, symbol string }
	first := make(map[key]int)
	var diags []dfa.Diagnostic

	for i, r := range a.Rules() {
		k := key{r.From, r.Symbol}
		j, seen := first[k]
		if !seen {
			first[k] = i
			continue
		}
		winner := a.Rules()[j]
		if winner.To == r.To {
			diags = append(diags, dfa.Diagnostic{
				Severity: "info",
				Message:  fmt.Sprintf("rule %d repeats rule %d (%s %s %s)", i+1, j+1, r.From, r.Symbol, r.To),
				State:    r.From,
				Symbol:   r.Symbol,
				Rule:     "duplicate_rule",
			})
			continue
		}
		diags = append(diags, dfa.Diagnostic{
			Severity: "warning",
			Message: fmt.Sprintf("rule %d (%s %s %s) is shadowed by rule %d (%s %s %s)",
				i+1, r.From, r.Symbol, r.To, j+1, winner.From, winner.Symbol, winner.To),
			State:  r.From,
			Symbol: r.Symbol,
			Rule:   "nondeterministic",
		})
	}
	return diags
}

func checkFinalStates(a *dfa.Automaton) []dfa.Diagnostic {
	if len(a.FinalStates()) > 0 {
		return nil
	}
	return []dfa.Diagnostic{{
		Severity: "warning",
		Message:  "automaton has no final states and rejects every word",
		Rule:     "no_final_states",
	}}
}

func checkReachability(a *dfa.Automaton) []dfa.Diagnostic {
	reachable := a.Reachable()
	var diags []dfa.Diagnostic

	for _, s := range a.UniqueStates() {
		if reachable[s] {
			continue
		}
		diags = append(diags, dfa.Diagnostic{
			Severity: "warning",
			Message:  fmt.Sprintf("state %q is not reachable from the initial state", s),
			State:    s,
			Rule:     "unreachable_state",
		})
	}

	if len(a.FinalStates()) == 0 {
		return diags
	}
	for _, f := range a.FinalStates() {
		if reachable[f] {
			return diags
		}
	}
	return append(diags, dfa.Diagnostic{
		Severity: "warning",
		Message:  "no final state is reachable; every word is rejected or invalid",
		Rule:     "no_reachable_final",
	})
}

// checkDeadStates flags reachable states from which no final state can be reached.
func checkDeadStates(a *dfa.Automaton) []dfa.Diagnostic {
	incoming := make(map[string][]string)
	for _, r := range a.Rules() {
		incoming[r.To] = append(incoming[r.To], r.From)
	}

	live := make(map[string]bool)
	queue := a.FinalStates()
	for _, f := range queue {
		live[f] = true
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, from := range incoming[cur] {
			if !live[from] {
				live[from] = true
				queue = append(queue, from)
			}
		}
	}

	reachable := a.Reachable()
	var diags []dfa.Diagnostic
	for _, s := range a.UniqueStates() {
		if !reachable[s] || live[s] {
			continue
		}
		diags = append(diags, dfa.Diagnostic{
			Severity: "info",
			Message:  fmt.Sprintf("state %q cannot reach any final state", s),
			State:    s,
			Rule:     "dead_state",
		})
	}
	return diags
}

// checkCompleteness reports reachable states lacking a rule for some symbol.
// Words that hit such a pair are rejected without scanning further.
func checkCompleteness(a *dfa.Automaton) []dfa.Diagnostic {
	reachable := a.Reachable()
	symbols := uniqueOrdered(a.Alphabet())
	var diags []dfa.Diagnostic

	for _, s := range a.UniqueStates() {
		if !reachable[s] {
			continue
		}
		var missing []string
		for _, sym := range symbols {
			if _, ok := a.Step(s, sym); !ok {
				missing = append(missing, sym)
			}
		}
		if len(missing) == 0 {
			continue
		}
		diags = append(diags, dfa.Diagnostic{
			Severity: "info",
			Message:  fmt.Sprintf("state %q has no transition on %s", s, strings.Join(missing, ", ")),
			State:    s,
			Rule:     "incomplete",
		})
	}
	return diags
}

func uniqueOrdered(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if !seen[it] {
			seen[it] = true
			out = append(out, it)
		}
	}
	return out
}
