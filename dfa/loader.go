// ABOUTME: Line-oriented loader for the five-section automaton text format.
// ABOUTME: Validates every cross-reference and returns either a complete Automaton or a LoadError.
package dfa

import (
	"io"
	"os"
	"strings"
)

// Section line numbers (1-based) of the text format.
const (
	lineAlphabet = 1
	lineStates   = 2
	lineFinals   = 3
	lineInitial  = 4
)

// Load reads and parses the automaton description at path.
func Load(path string) (*Automaton, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Kind: ErrSourceNotFound, Reason: path, Err: err}
	}
	return Parse(string(data))
}

// Read parses an automaton description from r.
func Read(r io.Reader) (*Automaton, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Kind: ErrSourceNotFound, Reason: "read source", Err: err}
	}
	return Parse(string(data))
}

// Parse builds an Automaton from the full text of a description:
//
//	<symbol> <symbol> ...
//	<state> <state> ...
//	<final-state> <final-state> ...
//	<initial-state>
//	<from-state> <symbol> <to-state>
//	...
//
// Each line is trimmed and split on single spaces. Blank transition lines are skipped.
func Parse(text string) (*Automaton, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	if len(lines) < lineStates {
		return nil, malformed(lineStates, "state list is missing")
	}
	alphabet := splitTokens(lines[lineAlphabet-1])
	states := splitTokens(lines[lineStates-1])
	stateSet := toSet(states)
	symbolSet := toSet(alphabet)

	if len(lines) < lineFinals {
		return nil, malformed(lineFinals, "final state list is missing")
	}
	finals, err := checkFinals(splitTokens(lines[lineFinals-1]), stateSet, lineFinals)
	if err != nil {
		return nil, err
	}

	if len(lines) < lineInitial {
		return nil, malformed(lineInitial, "initial state is missing")
	}
	initial := lines[lineInitial-1]
	if !stateSet[initial] {
		return nil, malformed(lineInitial, "initial state %q is not a declared state", initial)
	}

	var rules []Rule
	for i := lineInitial; i < len(lines); i++ {
		if lines[i] == "" {
			continue
		}
		rule, err := parseRule(lines[i], i+1, stateSet, symbolSet)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return build(alphabet, states, finals, initial, rules), nil
}

// checkFinals fails on the first candidate that is not a declared state.
func checkFinals(candidates []string, stateSet map[string]bool, line int) ([]string, error) {
	for _, s := range candidates {
		if !stateSet[s] {
			return nil, malformed(line, "final state %q is not a declared state", s)
		}
	}
	return candidates, nil
}

// parseRule reads "from symbol to"; tokens past the third are ignored.
func parseRule(line string, lineNo int, stateSet, symbolSet map[string]bool) (Rule, error) {
	tokens := splitTokens(line)
	if len(tokens) < 3 {
		return Rule{}, malformed(lineNo, "transition rule needs at least 3 fields, got %d", len(tokens))
	}
	r := Rule{From: tokens[0], Symbol: tokens[1], To: tokens[2]}
	if err := checkRule(r, lineNo, stateSet, symbolSet); err != nil {
		return Rule{}, err
	}
	return r, nil
}

func checkRule(r Rule, lineNo int, stateSet, symbolSet map[string]bool) error {
	switch {
	case !stateSet[r.From]:
		return malformed(lineNo, "transition origin %q is not a declared state", r.From)
	case !symbolSet[r.Symbol]:
		return malformed(lineNo, "transition symbol %q is not in the alphabet", r.Symbol)
	case !stateSet[r.To]:
		return malformed(lineNo, "transition destination %q is not a declared state", r.To)
	}
	return nil
}

// splitTokens splits on single spaces; consecutive spaces yield empty tokens.
func splitTokens(line string) []string {
	return strings.Split(line, " ")
}
