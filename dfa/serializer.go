// ABOUTME: Serializer that converts an Automaton back to the five-section text format.
// ABOUTME: Output round-trips through Parse and preserves declaration and rule order.
package dfa

import "strings"

// Serialize writes a in the text format accepted by Parse. An automaton built
// by New with no final states yields a blank third line, which Parse rejects.
func Serialize(a *Automaton) string {
	var b strings.Builder

	b.WriteString(strings.Join(a.alphabet, " "))
	b.WriteString("\n")
	b.WriteString(strings.Join(a.states, " "))
	b.WriteString("\n")
	b.WriteString(strings.Join(a.finalStates, " "))
	b.WriteString("\n")
	b.WriteString(a.initial)
	b.WriteString("\n")

	for _, r := range a.rules {
		b.WriteString(r.From)
		b.WriteString(" ")
		b.WriteString(r.Symbol)
		b.WriteString(" ")
		b.WriteString(r.To)
		b.WriteString("\n")
	}

	return b.String()
}
