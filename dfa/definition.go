// ABOUTME: Definition is the plain, serializable form of an automaton used at external boundaries.
// ABOUTME: Provides New plus YAML (gopkg.in/yaml.v3) and JSON codecs that classify missing and mistyped fields.
package dfa

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Definition is an unvalidated automaton description.
type Definition struct {
	Alphabet    []string `json:"alphabet" yaml:"alphabet"`
	States      []string `json:"states" yaml:"states"`
	FinalStates []string `json:"final_states" yaml:"final_states"`
	Initial     string   `json:"initial_state" yaml:"initial_state"`
	Transitions []Rule   `json:"transitions" yaml:"transitions"`
}

// requiredKeys are the keys every serialized definition must carry.
var requiredKeys = []string{"alphabet", "states", "final_states", "initial_state", "transitions"}

// New validates def and builds an Automaton from it. The same cross-reference
// rules as Parse apply; Line in any returned LoadError is the 1-based index of
// the offending transition, or 0 for the header fields.
func New(def Definition) (*Automaton, error) {
	alphabet := clone(def.Alphabet)
	states := clone(def.States)
	stateSet := toSet(states)
	symbolSet := toSet(alphabet)

	finals, err := checkFinals(clone(def.FinalStates), stateSet, 0)
	if err != nil {
		return nil, err
	}
	if !stateSet[def.Initial] {
		return nil, malformed(0, "initial state %q is not a declared state", def.Initial)
	}

	rules := make([]Rule, 0, len(def.Transitions))
	for i, r := range def.Transitions {
		if err := checkRule(r, i+1, stateSet, symbolSet); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}

	return build(alphabet, states, finals, def.Initial, rules), nil
}

// Definition returns the serializable form of a.
func (a *Automaton) Definition() Definition {
	return Definition{
		Alphabet:    a.Alphabet(),
		States:      a.States(),
		FinalStates: a.FinalStates(),
		Initial:     a.initial,
		Transitions: a.Rules(),
	}
}

// MarshalJSON encodes the automaton as its Definition.
func (a *Automaton) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Definition())
}

// DecodeYAML builds an Automaton from a YAML document. A missing or null
// required key fails with ErrStructuralIntegrity; a value of the wrong shape
// fails with ErrTypeMismatch.
func DecodeYAML(data []byte) (*Automaton, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Kind: ErrMalformedStructure, Reason: "invalid YAML", Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &LoadError{Kind: ErrStructuralIntegrity, Reason: "empty document"}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &LoadError{Kind: ErrTypeMismatch, Reason: "automaton must be a mapping"}
	}

	present := make(map[string]bool)
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i+1].Tag != "!!null" {
			present[root.Content[i].Value] = true
		}
	}
	if err := checkRequired(present); err != nil {
		return nil, err
	}

	var def Definition
	if err := root.Decode(&def); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return nil, &LoadError{Kind: ErrTypeMismatch, Reason: "decode automaton", Err: err}
		}
		return nil, &LoadError{Kind: ErrMalformedStructure, Reason: "decode automaton", Err: err}
	}
	return New(def)
}

// EncodeYAML writes the automaton as a YAML document.
func EncodeYAML(a *Automaton) ([]byte, error) {
	data, err := yaml.Marshal(a.Definition())
	if err != nil {
		return nil, fmt.Errorf("marshal automaton yaml: %w", err)
	}
	return data, nil
}

// DecodeJSON builds an Automaton from a JSON object with the same key rules as DecodeYAML.
func DecodeJSON(data []byte) (*Automaton, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, classifyJSON(err)
	}

	present := make(map[string]bool, len(raw))
	for k, v := range raw {
		if string(v) != "null" {
			present[k] = true
		}
	}
	if err := checkRequired(present); err != nil {
		return nil, err
	}

	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, classifyJSON(err)
	}
	return New(def)
}

func checkRequired(present map[string]bool) error {
	for _, k := range requiredKeys {
		if !present[k] {
			return &LoadError{Kind: ErrStructuralIntegrity, Reason: fmt.Sprintf("missing field %q", k)}
		}
	}
	return nil
}

func classifyJSON(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &LoadError{Kind: ErrTypeMismatch, Reason: "decode automaton", Err: err}
	}
	return &LoadError{Kind: ErrMalformedStructure, Reason: "invalid JSON", Err: err}
}
