// ABOUTME: Immutable automaton type for the DFA evaluator with rule, diagnostic, and outcome definitions.
// ABOUTME: Provides read-only accessors, membership helpers, and first-match transition lookup.
package dfa

import "sort"

// Outcome is the classification of a single word against an automaton.
// The label values are part of the observable contract and must not change.
type Outcome string

const (
	Accepted Outcome = "ACEITA"
	Rejected Outcome = "REJEITA"
	Invalid  Outcome = "INVALIDA"
)

// Rule is a single transition (from, symbol, to).
type Rule struct {
	From   string `json:"from" yaml:"from"`
	Symbol string `json:"symbol" yaml:"symbol"`
	To     string `json:"to" yaml:"to"`
}

// Diagnostic represents a non-fatal finding about an automaton.
type Diagnostic struct {
	Severity string // "error", "warning", "info"
	Message  string
	State    string
	Symbol   string
	Rule     string
}

type stepKey struct {
	state  string
	symbol string
}

// Automaton is a validated deterministic finite automaton. It is only built
// by Parse, Load, or New and never changes afterwards, so it can be shared
// across goroutines without locking.
type Automaton struct {
	alphabet    []string
	states      []string
	finalStates []string
	initial     string
	rules       []Rule

	symbolSet map[string]bool
	stateSet  map[string]bool
	finalSet  map[string]bool

	// index maps (state, symbol) to the first declared rule for that pair.
	index map[stepKey]int
}

// build assembles the lookup tables. Callers must have validated the inputs.
func build(alphabet, states, finals []string, initial string, rules []Rule) *Automaton {
	a := &Automaton{
		alphabet:    alphabet,
		states:      states,
		finalStates: finals,
		initial:     initial,
		rules:       rules,
		symbolSet:   toSet(alphabet),
		stateSet:    toSet(states),
		finalSet:    toSet(finals),
		index:       make(map[stepKey]int, len(rules)),
	}
	for i, r := range rules {
		k := stepKey{r.From, r.Symbol}
		if _, seen := a.index[k]; !seen {
			a.index[k] = i
		}
	}
	return a
}

// intact reports whether the automaton was produced by a constructor.
func (a *Automaton) intact() bool {
	return a != nil && a.stateSet != nil && a.symbolSet != nil && a.finalSet != nil && a.index != nil
}

// Alphabet returns the declared symbols in declaration order.
func (a *Automaton) Alphabet() []string { return clone(a.alphabet) }

// States returns the declared states in declaration order.
func (a *Automaton) States() []string { return clone(a.states) }

// FinalStates returns the accepting states in declaration order.
func (a *Automaton) FinalStates() []string { return clone(a.finalStates) }

// InitialState returns the start state.
func (a *Automaton) InitialState() string { return a.initial }

// Rules returns the transitions in file order.
func (a *Automaton) Rules() []Rule {
	out := make([]Rule, len(a.rules))
	copy(out, a.rules)
	return out
}

// HasSymbol reports whether s is in the alphabet.
func (a *Automaton) HasSymbol(s string) bool { return a.symbolSet[s] }

// HasState reports whether s is a declared state.
func (a *Automaton) HasState(s string) bool { return a.stateSet[s] }

// IsFinal reports whether s is an accepting state.
func (a *Automaton) IsFinal(s string) bool { return a.finalSet[s] }

// Step returns the destination of the first rule matching (state, symbol).
func (a *Automaton) Step(state, symbol string) (string, bool) {
	i, ok := a.index[stepKey{state, symbol}]
	if !ok {
		return "", false
	}
	return a.rules[i].To, true
}

// OutgoingRules returns all rules leaving the given state, in file order.
func (a *Automaton) OutgoingRules(state string) []Rule {
	var result []Rule
	for _, r := range a.rules {
		if r.From == state {
			result = append(result, r)
		}
	}
	return result
}

// Reachable returns the set of states reachable from the initial state.
func (a *Automaton) Reachable() map[string]bool {
	seen := map[string]bool{a.initial: true}
	queue := []string{a.initial}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, r := range a.OutgoingRules(cur) {
			if !seen[r.To] {
				seen[r.To] = true
				queue = append(queue, r.To)
			}
		}
	}
	return seen
}

// UniqueStates returns the distinct states in sorted order for deterministic output.
func (a *Automaton) UniqueStates() []string {
	ids := make([]string, 0, len(a.stateSet))
	for id := range a.stateSet {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func toSet(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
