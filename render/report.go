// ABOUTME: Markdown evaluation report for an automaton, its lint findings, and a word result set.
// ABOUTME: MarkdownToHTML converts the report with goldmark for the web UI.
package render

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/2389-research/automata/dfa"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown builds a report with the automaton's declaration, a transition
// table, any diagnostics, and the outcome of each word in result (sorted).
// result and diags may be nil.
func Markdown(title string, a *dfa.Automaton, diags []dfa.Diagnostic, result dfa.Result) string {
	var b strings.Builder

	if title == "" {
		title = "Automaton"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	fmt.Fprintf(&b, "- **Alphabet:** %s\n", codeList(a.Alphabet()))
	fmt.Fprintf(&b, "- **States:** %s\n", codeList(a.States()))
	fmt.Fprintf(&b, "- **Final states:** %s\n", codeList(a.FinalStates()))
	fmt.Fprintf(&b, "- **Initial state:** `%s`\n\n", a.InitialState())

	b.WriteString("## Transitions\n\n")
	symbols := uniqueSymbols(a)
	b.WriteString("| state |")
	for _, s := range symbols {
		fmt.Fprintf(&b, " `%s` |", s)
	}
	b.WriteString("\n|---|")
	for range symbols {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for _, st := range a.UniqueStates() {
		label := "`" + st + "`"
		if st == a.InitialState() {
			label = "→ " + label
		}
		if a.IsFinal(st) {
			label += " *"
		}
		fmt.Fprintf(&b, "| %s |", label)
		for _, sym := range symbols {
			if to, ok := a.Step(st, sym); ok {
				fmt.Fprintf(&b, " `%s` |", to)
			} else {
				b.WriteString(" - |")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(diags) > 0 {
		b.WriteString("## Diagnostics\n\n")
		for _, d := range diags {
			fmt.Fprintf(&b, "- **%s** `%s`: %s\n", d.Severity, d.Rule, d.Message)
		}
		b.WriteString("\n")
	}

	if result != nil {
		b.WriteString("## Words\n\n")
		fmt.Fprintf(&b, "%d accepted, %d rejected, %d invalid.\n\n",
			result.Count(dfa.Accepted), result.Count(dfa.Rejected), result.Count(dfa.Invalid))
		b.WriteString("| word | outcome |\n|---|---|\n")
		words := make([]string, 0, len(result))
		for w := range result {
			words = append(words, w)
		}
		sort.Strings(words)
		for _, w := range words {
			shown := "`" + w + "`"
			if w == "" {
				shown = "*(empty)*"
			}
			fmt.Fprintf(&b, "| %s | %s |\n", shown, result[w])
		}
	}

	return b.String()
}

// MarkdownToHTML converts markdown to HTML with GitHub-style tables enabled.
// Raw HTML in the input is not rendered.
func MarkdownToHTML(md string) (string, error) {
	var buf bytes.Buffer
	conv := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := conv.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

func codeList(items []string) string {
	if len(items) == 0 {
		return "*(none)*"
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = "`" + it + "`"
	}
	return strings.Join(parts, " ")
}

func uniqueSymbols(a *dfa.Automaton) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range a.Alphabet() {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
