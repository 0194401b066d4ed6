// ABOUTME: Word processor that simulates each word symbol-by-symbol and classifies it as accepted, rejected, or invalid.
// ABOUTME: Provides sequential, boundary-typed, and bounded-parallel entry points plus per-word traces.
package dfa

import (
	"context"
	"fmt"
	"sync"
)

// Result maps each processed word to its outcome. For duplicate words the
// last occurrence processed wins.
type Result map[string]Outcome

// Count returns how many words in r have outcome o.
func (r Result) Count(o Outcome) int {
	n := 0
	for _, v := range r {
		if v == o {
			n++
		}
	}
	return n
}

// Step is one transition taken while scanning a word.
type Step struct {
	From   string `json:"from"`
	Symbol string `json:"symbol"`
	To     string `json:"to"`
}

// Trace records how a word was evaluated.
type Trace struct {
	Word    string  `json:"word"`
	Steps   []Step  `json:"steps"`
	State   string  `json:"state"` // state when scanning stopped
	Outcome Outcome `json:"outcome"`
	// Halt is the rune index where scanning stopped early, or -1 when the
	// whole word was consumed.
	Halt int `json:"halt"`
	// Symbol is the character at Halt, empty when the word was consumed.
	Symbol string `json:"symbol,omitempty"`
}

// Evaluate classifies a single word.
func (a *Automaton) Evaluate(word string) Outcome {
	outcome, _, _, _ := a.walk(word, nil)
	return outcome
}

// Trace evaluates word and records every step taken.
func (a *Automaton) Trace(word string) Trace {
	t := Trace{Word: word, Steps: []Step{}}
	t.Outcome, t.State, t.Halt, t.Symbol = a.walk(word, func(s Step) {
		t.Steps = append(t.Steps, s)
	})
	return t
}

// walk scans word from the initial state. Scanning stops at the first
// character outside the alphabet (Invalid) or the first character with no
// applicable rule (Rejected).
func (a *Automaton) walk(word string, visit func(Step)) (Outcome, string, int, string) {
	current := a.initial
	i := 0
	for _, r := range word {
		symbol := string(r)
		if !a.symbolSet[symbol] {
			return Invalid, current, i, symbol
		}
		next, ok := a.Step(current, symbol)
		if !ok {
			return Rejected, current, i, symbol
		}
		if visit != nil {
			visit(Step{From: current, Symbol: symbol, To: next})
		}
		current = next
		i++
	}
	if a.finalSet[current] {
		return Accepted, current, -1, ""
	}
	return Rejected, current, -1, ""
}

// Process classifies every word against a. It fails with
// ErrStructuralIntegrity when a was not built by one of the constructors.
func Process(a *Automaton, words []string) (Result, error) {
	if !a.intact() {
		return nil, &LoadError{Kind: ErrStructuralIntegrity, Reason: "automaton was not constructed by the loader"}
	}
	result := make(Result, len(words))
	for _, w := range words {
		result[w] = a.Evaluate(w)
	}
	return result, nil
}

// ProcessValues is the entry point for word lists arriving from an untyped
// boundary. Every element must be a string; otherwise it fails with
// ErrTypeMismatch before any word is processed.
func ProcessValues(a *Automaton, values []any) (Result, error) {
	words, err := Words(values)
	if err != nil {
		return nil, err
	}
	return Process(a, words)
}

// Words converts untyped values to strings, failing on the first non-string element.
func Words(values []any) ([]string, error) {
	words := make([]string, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			return nil, &LoadError{
				Kind:   ErrTypeMismatch,
				Reason: fmt.Sprintf("word %d has type %T, want string", i, v),
			}
		}
		words[i] = s
	}
	return words, nil
}

// ProcessParallel classifies words with up to workers concurrent goroutines.
// The result is identical to Process; duplicate words resolve to the last
// occurrence in input order.
func ProcessParallel(ctx context.Context, a *Automaton, words []string, workers int) (Result, error) {
	if !a.intact() {
		return nil, &LoadError{Kind: ErrStructuralIntegrity, Reason: "automaton was not constructed by the loader"}
	}
	if workers <= 0 {
		workers = 4
	}

	outcomes := make([]Outcome, len(words))
	semaphore := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, w := range words {
		select {
		case semaphore <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		}
		wg.Add(1)
		go func(idx int, word string) {
			defer wg.Done()
			defer func() { <-semaphore }()
			outcomes[idx] = a.Evaluate(word)
		}(i, w)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := make(Result, len(words))
	for i, w := range words {
		result[w] = outcomes[i]
	}
	return result, nil
}
