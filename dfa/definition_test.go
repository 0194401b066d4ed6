// ABOUTME: Tests for Definition-based construction and the YAML and JSON boundary codecs.
// ABOUTME: Verifies that missing fields map to structural integrity and mistyped fields to type mismatch.
package dfa

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func exampleDefinition() Definition {
	return Definition{
		Alphabet:    []string{"a", "b"},
		States:      []string{"q0", "q1", "q2", "q3"},
		FinalStates: []string{"q0", "q3"},
		Initial:     "q0",
		Transitions: []Rule{
			{"q0", "a", "q1"}, {"q0", "b", "q2"},
			{"q1", "a", "q0"}, {"q1", "b", "q3"},
			{"q2", "a", "q3"}, {"q2", "b", "q0"},
			{"q3", "a", "q1"}, {"q3", "b", "q2"},
		},
	}
}

func TestNewMatchesParse(t *testing.T) {
	fromDef, err := New(exampleDefinition())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	fromText := mustParse(t, exampleSource)
	if !reflect.DeepEqual(fromDef.Definition(), fromText.Definition()) {
		t.Errorf("definitions differ:\n%+v\n%+v", fromDef.Definition(), fromText.Definition())
	}
	if fromDef.Evaluate("ab") != Accepted {
		t.Error("expected ab to be accepted")
	}
}

func TestNewRejectsBadReferences(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Definition)
		wantLine int
	}{
		{"unknown final", func(d *Definition) { d.FinalStates = append(d.FinalStates, "zz") }, 0},
		{"unknown initial", func(d *Definition) { d.Initial = "zz" }, 0},
		{"empty initial", func(d *Definition) { d.Initial = "" }, 0},
		{"unknown rule symbol", func(d *Definition) { d.Transitions[2].Symbol = "c" }, 3},
		{"unknown rule origin", func(d *Definition) { d.Transitions[0].From = "zz" }, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := exampleDefinition()
			tt.mutate(&def)
			_, err := New(def)
			if !errors.Is(err, ErrMalformedStructure) {
				t.Fatalf("expected ErrMalformedStructure, got %v", err)
			}
			var le *LoadError
			if errors.As(err, &le) && le.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", le.Line, tt.wantLine)
			}
		})
	}
}

func TestNewCopiesInput(t *testing.T) {
	def := exampleDefinition()
	a, err := New(def)
	if err != nil {
		t.Fatal(err)
	}
	def.States[0] = "mutated"
	def.Transitions[0].To = "mutated"
	if a.States()[0] != "q0" || a.Rules()[0].To != "q1" {
		t.Error("automaton must not alias the caller's definition")
	}
}

const exampleYAML = `alphabet: [a, b]
states: [q0, q1, q2, q3]
final_states: [q0, q3]
initial_state: q0
transitions:
  - {from: q0, symbol: a, to: q1}
  - {from: q0, symbol: b, to: q2}
  - {from: q1, symbol: a, to: q0}
  - {from: q1, symbol: b, to: q3}
  - {from: q2, symbol: a, to: q3}
  - {from: q2, symbol: b, to: q0}
  - {from: q3, symbol: a, to: q1}
  - {from: q3, symbol: b, to: q2}
`

func TestDecodeYAML(t *testing.T) {
	a, err := DecodeYAML([]byte(exampleYAML))
	if err != nil {
		t.Fatalf("DecodeYAML error: %v", err)
	}
	if !reflect.DeepEqual(a.Definition(), exampleDefinition()) {
		t.Errorf("definition = %+v", a.Definition())
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	a := mustParse(t, exampleSource)
	data, err := EncodeYAML(a)
	if err != nil {
		t.Fatalf("EncodeYAML error: %v", err)
	}
	back, err := DecodeYAML(data)
	if err != nil {
		t.Fatalf("DecodeYAML error: %v\n%s", err, data)
	}
	if Serialize(back) != Serialize(a) {
		t.Errorf("round trip mismatch:\n%s", data)
	}
}

func TestDecodeYAMLFailures(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"missing transitions", "alphabet: [a]\nstates: [q0]\nfinal_states: [q0]\ninitial_state: q0\n", ErrStructuralIntegrity},
		{"null initial", "alphabet: [a]\nstates: [q0]\nfinal_states: [q0]\ninitial_state:\ntransitions: []\n", ErrStructuralIntegrity},
		{"empty document", "", ErrStructuralIntegrity},
		{"not a mapping", "- a\n- b\n", ErrTypeMismatch},
		{"alphabet is a mapping", "alphabet: {a: 1}\nstates: [q0]\nfinal_states: [q0]\ninitial_state: q0\ntransitions: []\n", ErrTypeMismatch},
		{"unknown final", "alphabet: [a]\nstates: [q0]\nfinal_states: [q9]\ninitial_state: q0\ntransitions: []\n", ErrMalformedStructure},
		{"bad syntax", "alphabet: [a\n", ErrMalformedStructure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeYAML([]byte(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	data, err := json.Marshal(mustParse(t, exampleSource))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	a, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON error: %v", err)
	}
	if a.Evaluate("aab") != Rejected {
		t.Error("expected aab to be rejected")
	}
}

func TestDecodeJSONFailures(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"missing states", `{"alphabet":["a"],"final_states":[],"initial_state":"q0","transitions":[]}`, ErrStructuralIntegrity},
		{"null alphabet", `{"alphabet":null,"states":["q0"],"final_states":[],"initial_state":"q0","transitions":[]}`, ErrStructuralIntegrity},
		{"top-level array", `["a"]`, ErrTypeMismatch},
		{"numeric state", `{"alphabet":["a"],"states":[1],"final_states":[],"initial_state":"q0","transitions":[]}`, ErrTypeMismatch},
		{"syntax", `{"alphabet":`, ErrMalformedStructure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
