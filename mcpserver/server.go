// ABOUTME: MCP server exposing automaton evaluation, linting, and DOT rendering as tools.
// ABOUTME: Automata are passed inline in the line-oriented text format; nothing is persisted.
package mcpserver

import (
	"context"
	"fmt"
	"log"

	"github.com/2389-research/automata/dfa"
	"github.com/2389-research/automata/dfa/validator"
	"github.com/2389-research/automata/render"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// EvaluateInput is the argument of the evaluate_words tool.
type EvaluateInput struct {
	Automaton string   `json:"automaton" jsonschema:"automaton description in the line-oriented text format"`
	Words     []string `json:"words" jsonschema:"words to classify"`
	Trace     bool     `json:"trace,omitempty" jsonschema:"include the transitions taken for each word"`
}

// WordResult is the classification of one word.
type WordResult struct {
	Word    string     `json:"word"`
	Outcome string     `json:"outcome"`
	Trace   *dfa.Trace `json:"trace,omitempty"`
}

// EvaluateOutput lists each distinct word in first-seen order.
type EvaluateOutput struct {
	Results  []WordResult `json:"results"`
	Accepted int          `json:"accepted"`
	Rejected int          `json:"rejected"`
	Invalid  int          `json:"invalid"`
}

// AutomatonInput carries a single automaton description.
type AutomatonInput struct {
	Automaton string `json:"automaton" jsonschema:"automaton description in the line-oriented text format"`
}

// LintDiagnostic mirrors dfa.Diagnostic for tool output.
type LintDiagnostic struct {
	Severity string `json:"severity"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	State    string `json:"state,omitempty"`
	Symbol   string `json:"symbol,omitempty"`
}

// LintOutput is the result of the lint_automaton tool.
type LintOutput struct {
	Diagnostics []LintDiagnostic `json:"diagnostics"`
	HasErrors   bool             `json:"has_errors"`
}

// RenderOutput is the result of the render_dot tool.
type RenderOutput struct {
	DOT string `json:"dot"`
}

// New builds an MCP server with the automaton tools registered.
func New(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "automata", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "evaluate_words",
		Description: "Classify words against a DFA as ACEITA (accepted), REJEITA (rejected), or INVALIDA (symbol outside the alphabet).",
	}, evaluateWords)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "lint_automaton",
		Description: "Report non-fatal findings about a DFA: unreachable or dead states, shadowed rules, missing transitions.",
	}, lintAutomaton)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "render_dot",
		Description: "Render a DFA as Graphviz DOT source, optionally highlighting the path of one word.",
	}, renderDOT)

	return server
}

// Serve runs the MCP server over stdio until ctx is cancelled or the client disconnects.
func Serve(ctx context.Context, version string) error {
	log.Printf("mcp serving transport=stdio version=%s", version)
	if err := New(version).Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

func evaluateWords(ctx context.Context, _ *mcp.CallToolRequest, in EvaluateInput) (*mcp.CallToolResult, EvaluateOutput, error) {
	a, err := dfa.Parse(in.Automaton)
	if err != nil {
		return nil, EvaluateOutput{}, err
	}
	result, err := dfa.ProcessParallel(ctx, a, in.Words, 0)
	if err != nil {
		return nil, EvaluateOutput{}, err
	}

	out := EvaluateOutput{
		Results:  make([]WordResult, 0, len(result)),
		Accepted: result.Count(dfa.Accepted),
		Rejected: result.Count(dfa.Rejected),
		Invalid:  result.Count(dfa.Invalid),
	}
	seen := make(map[string]bool, len(result))
	for _, w := range in.Words {
		if seen[w] {
			continue
		}
		seen[w] = true
		wr := WordResult{Word: w, Outcome: string(result[w])}
		if in.Trace {
			tr := a.Trace(w)
			wr.Trace = &tr
		}
		out.Results = append(out.Results, wr)
	}
	return nil, out, nil
}

func lintAutomaton(_ context.Context, _ *mcp.CallToolRequest, in AutomatonInput) (*mcp.CallToolResult, LintOutput, error) {
	a, err := dfa.Parse(in.Automaton)
	if err != nil {
		return nil, LintOutput{}, err
	}
	diags := validator.Lint(a)
	out := LintOutput{Diagnostics: make([]LintDiagnostic, 0, len(diags)), HasErrors: validator.HasErrors(diags)}
	for _, d := range diags {
		out.Diagnostics = append(out.Diagnostics, LintDiagnostic{
			Severity: d.Severity,
			Rule:     d.Rule,
			Message:  d.Message,
			State:    d.State,
			Symbol:   d.Symbol,
		})
	}
	return nil, out, nil
}

// RenderInput is the argument of the render_dot tool.
type RenderInput struct {
	Automaton string  `json:"automaton" jsonschema:"automaton description in the line-oriented text format"`
	Word      *string `json:"word,omitempty" jsonschema:"word whose path is highlighted"`
}

func renderDOT(_ context.Context, _ *mcp.CallToolRequest, in RenderInput) (*mcp.CallToolResult, RenderOutput, error) {
	a, err := dfa.Parse(in.Automaton)
	if err != nil {
		return nil, RenderOutput{}, err
	}
	if in.Word == nil {
		return nil, RenderOutput{DOT: render.ToDOT(a)}, nil
	}
	tr := a.Trace(*in.Word)
	return nil, RenderOutput{DOT: render.ToDOTWithTrace(a, &tr)}, nil
}
