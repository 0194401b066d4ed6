// ABOUTME: Converts automata to graphviz DOT text and renders to SVG/PNG via the graphviz dot command.
// ABOUTME: Provides ToDOT, ToDOTWithTrace (word path overlay coloured by outcome), and Render functions.
package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/2389-research/automata/dfa"
)

// Outcome color constants used for the trace overlay.
const (
	ColorAccepted = "#4CAF50" // green
	ColorRejected = "#F44336" // red
	ColorInvalid  = "#FFC107" // yellow
	ColorVisited  = "#90CAF9" // light blue
	ColorShadowed = "#9E9E9E" // gray
)

// startMarker is the base name of the invisible node the initial-state arrow comes from.
const startMarker = "__start"

// edge groups every effective rule between the same pair of states.
type edge struct {
	from, to string
	symbols  []string
	shadowed bool
}

// ToDOT serializes an automaton as a left-to-right graphviz digraph. Final
// states are drawn as double circles; rules shadowed by an earlier rule for
// the same (state, symbol) pair are drawn dashed.
func ToDOT(a *dfa.Automaton) string {
	return toDOT(a, nil)
}

// ToDOTWithTrace is ToDOT with the path of trace highlighted. Visited states
// are filled, and the state where scanning stopped takes the outcome color.
func ToDOTWithTrace(a *dfa.Automaton, trace *dfa.Trace) string {
	return toDOT(a, trace)
}

func toDOT(a *dfa.Automaton, trace *dfa.Trace) string {
	if a == nil {
		return ""
	}

	visited := map[string]bool{}
	taken := map[string]bool{}
	if trace != nil {
		visited[a.InitialState()] = true
		for _, s := range trace.Steps {
			visited[s.To] = true
			taken[s.From+"\x00"+s.To] = true
		}
	}

	start := startNode(a)

	var buf strings.Builder
	buf.WriteString("digraph automaton {\n")
	buf.WriteString("  rankdir=\"LR\"\n")
	fmt.Fprintf(&buf, "  %s [shape=\"point\"]\n", start)
	fmt.Fprintf(&buf, "  %s -> %s\n", start, quoteID(a.InitialState()))

	for _, id := range a.UniqueStates() {
		attrs := map[string]string{"shape": "circle"}
		if a.IsFinal(id) {
			attrs["shape"] = "doublecircle"
		}
		if visited[id] {
			attrs["style"] = "filled"
			attrs["fillcolor"] = ColorVisited
		}
		if trace != nil && id == trace.State {
			attrs["style"] = "filled"
			attrs["fillcolor"] = outcomeColor(trace.Outcome)
		}
		fmt.Fprintf(&buf, "  %s [%s]\n", quoteID(id), formatAttrs(attrs))
	}

	for _, e := range groupEdges(a) {
		attrs := map[string]string{"label": strings.Join(e.symbols, ", ")}
		if e.shadowed {
			attrs["style"] = "dashed"
			attrs["color"] = ColorShadowed
		}
		if !e.shadowed && taken[e.from+"\x00"+e.to] {
			attrs["color"] = outcomeColor(trace.Outcome)
			attrs["penwidth"] = "2"
		}
		fmt.Fprintf(&buf, "  %s -> %s [%s]\n", quoteID(e.from), quoteID(e.to), formatAttrs(attrs))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// startNode returns startMarker, extended with underscores until it names no state.
func startNode(a *dfa.Automaton) string {
	taken := make(map[string]bool)
	for _, id := range a.UniqueStates() {
		taken[id] = true
	}
	name := startMarker
	for taken[name] {
		name += "_"
	}
	return name
}

// groupEdges merges rules with the same endpoints into one labelled edge,
// keeping shadowed rules on separate edges. Order follows the first rule of each group.
func groupEdges(a *dfa.Automaton) []*edge {
	type pairKey struct {
		from, to string
		shadowed bool
	}
	var order []*edge
	groups := map[pairKey]*edge{}
	seenStep := map[string]bool{}

	for _, r := range a.Rules() {
		stepID := r.From + "\x00" + r.Symbol
		shadowed := seenStep[stepID]
		seenStep[stepID] = true

		k := pairKey{r.From, r.To, shadowed}
		e, ok := groups[k]
		if !ok {
			e = &edge{from: r.From, to: r.To, shadowed: shadowed}
			groups[k] = e
			order = append(order, e)
		}
		e.symbols = append(e.symbols, r.Symbol)
	}
	return order
}

func outcomeColor(o dfa.Outcome) string {
	switch o {
	case dfa.Accepted:
		return ColorAccepted
	case dfa.Invalid:
		return ColorInvalid
	default:
		return ColorRejected
	}
}

// Render produces rendered output for an automaton in the specified format.
// Supported formats: "dot" (returns DOT text), "svg", "png" (shell out to graphviz dot command).
func Render(ctx context.Context, a *dfa.Automaton, format string) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("cannot render nil automaton")
	}
	return RenderDOTSource(ctx, ToDOT(a), format)
}

// GraphvizAvailable checks whether the graphviz dot command is installed and reachable.
func GraphvizAvailable() bool {
	_, err := exec.LookPath("dot")
	return err == nil
}

// RenderDOTSource takes raw DOT text and renders it to the specified format.
// For "dot" format, it returns the input text as-is.
func RenderDOTSource(ctx context.Context, dotText string, format string) ([]byte, error) {
	if dotText == "" {
		return nil, fmt.Errorf("cannot render empty DOT text")
	}

	switch format {
	case "dot":
		return []byte(dotText), nil
	case "svg", "png":
		return renderWithGraphviz(ctx, dotText, format)
	default:
		return nil, fmt.Errorf("unsupported format %q: supported formats are dot, svg, png", format)
	}
}

// renderWithGraphviz pipes DOT text to the graphviz dot command and returns the output.
func renderWithGraphviz(ctx context.Context, dotText string, format string) ([]byte, error) {
	if !GraphvizAvailable() {
		return nil, fmt.Errorf("graphviz dot command not found: install graphviz to render %s output", format)
	}

	cmd := exec.CommandContext(ctx, "dot", "-T"+format)
	cmd.Stdin = strings.NewReader(dotText)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("graphviz dot command failed: %w: %s", err, stderr.String())
	}

	return stdout.Bytes(), nil
}

// formatAttrs formats a map of attributes as a DOT attribute list (key="value", key="value").
func formatAttrs(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+quoteString(attrs[k]))
	}
	return strings.Join(parts, ", ")
}

// quoteID returns a DOT-safe identifier. Bare identifiers and numerals are
// returned as-is; anything else is quoted.
func quoteID(id string) string {
	if isBareID(id) || isNumeral(id) {
		return id
	}
	return quoteString(id)
}

// quoteString wraps s in double quotes. DOT strings only understand escaped
// quotes and backslashes, so nothing else is rewritten.
func quoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, c := range s {
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	b.WriteByte('"')
	return b.String()
}

// isBareID reports whether id matches [A-Za-z_][A-Za-z0-9_]*.
func isBareID(id string) bool {
	if id == "" {
		return false
	}
	for i, c := range id {
		letter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
		if !letter && (i == 0 || c < '0' || c > '9') {
			return false
		}
	}
	return true
}

func isNumeral(id string) bool {
	if id == "" {
		return false
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
