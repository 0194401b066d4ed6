// ABOUTME: Help display for the automata CLI with grouped flags, subcommands, examples, and environment status.
// ABOUTME: Provides printHelp for usage output and envStatus for AUTOMATA_* override detection.
package main

import (
	"fmt"
	"io"
	"os"
)

const automataASCII = `
      a        b
  -> (q0) --> (q1) --> ((q3))
`

// printHelp writes the usage message to w.
func printHelp(w io.Writer, ver string) {
	fmt.Fprint(w, automataASCII)
	fmt.Fprintf(w, "automata %s: deterministic finite automaton evaluator\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  automata [flags] <automaton[.txt]> [word ...]   Classify words (args, -words file, or stdin)")
	fmt.Fprintln(w, "  automata -validate <automaton>                  Load and check the description only")
	fmt.Fprintln(w, "  automata serve [-addr host:port]                Start the HTTP API")
	fmt.Fprintln(w, "  automata tui <automaton>                        Interactive word tester")
	fmt.Fprintln(w, "  automata mcp                                    MCP tool server on stdio")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Evaluation Flags:")
	fmt.Fprintln(w, "  -words <file>         Read words from a file, one per line")
	fmt.Fprintln(w, "  -trace                Print the transitions taken for each word")
	fmt.Fprintln(w, "  -lint                 Print diagnostics about the automaton")
	fmt.Fprintln(w, "  -render <fmt>         Write a graph (dot, svg, png) to stdout; one word overlays its path")
	fmt.Fprintln(w, "  -workers <n>          Evaluation parallelism (default: 4)")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Serve Flags:")
	fmt.Fprintln(w, "  -addr <host:port>     Listen address (default: 127.0.0.1:2390)")
	fmt.Fprintln(w, "  -data-dir <dir>       Catalog directory (default: $XDG_DATA_HOME/automata)")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Other:")
	fmt.Fprintln(w, "  -config <file>        Settings file (yaml, json, or toml)")
	fmt.Fprintln(w, "  -validate             Check the automaton without evaluating words")
	fmt.Fprintln(w, "  -version              Print version and exit")
	fmt.Fprintln(w, "  -help                 Show this help")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  automata examples/parity ab abab abc")
	fmt.Fprintln(w, "  automata -trace examples/parity.txt ab")
	fmt.Fprintln(w, "  automata -words words.txt examples/parity")
	fmt.Fprintln(w, "  automata -render svg examples/parity ab > path.svg")
	fmt.Fprintln(w, "  automata serve -addr :8080")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  AUTOMATA_SERVER_ADDR       %s\n", envStatus("AUTOMATA_SERVER_ADDR"))
	fmt.Fprintf(w, "  AUTOMATA_STORE_PATH        %s\n", envStatus("AUTOMATA_STORE_PATH"))
	fmt.Fprintf(w, "  AUTOMATA_RENDER_CACHE_TTL  %s\n", envStatus("AUTOMATA_RENDER_CACHE_TTL"))
	fmt.Fprintf(w, "  AUTOMATA_PROCESS_WORKERS   %s\n", envStatus("AUTOMATA_PROCESS_WORKERS"))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Output: one \"word: LABEL\" line per distinct word, LABEL is ACEITA, REJEITA, or INVALIDA.")
}

// envStatus returns "[set]" if the named environment variable is non-empty,
// or "[not set]" otherwise.
func envStatus(key string) string {
	if os.Getenv(key) != "" {
		return "[set]"
	}
	return "[not set]"
}
