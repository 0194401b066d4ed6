// ABOUTME: CLI entrypoint for the automata evaluator with evaluate, validate, lint, render, serve, tui, and mcp modes.
// ABOUTME: Wires the dfa loader, the viper settings, the sqlite catalog, and the web, tui, and mcp front ends.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	appconfig "github.com/2389-research/automata/config"
	"github.com/2389-research/automata/dfa"
	"github.com/2389-research/automata/dfa/validator"
	"github.com/2389-research/automata/mcpserver"
	"github.com/2389-research/automata/render"
	"github.com/2389-research/automata/store"
	"github.com/2389-research/automata/tui"
	"github.com/2389-research/automata/web"
	"github.com/charmbracelet/lipgloss"
)

var version = "dev"

// config holds the evaluate-mode flags and positional arguments.
type config struct {
	validateOnly  bool
	lint          bool
	trace         bool
	renderFormat  string
	workers       int
	configFile    string
	wordsFile     string
	showVersion   bool
	automatonFile string
	words         []string
}

// serveConfig holds flags for "automata serve".
type serveConfig struct {
	addr       string
	dataDir    string
	configFile string
	workers    int
}

func main() {
	loadDotEnvAuto()
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run dispatches subcommands and returns the process exit code:
// 0 on success, 1 on load or runtime failure, 2 on usage errors.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if len(args) > 0 {
		switch args[0] {
		case "serve":
			return runServe(ctx, args[1:], stderr)
		case "tui":
			return runTUI(args[1:], stderr)
		case "mcp":
			return runMCP(ctx, args[1:], stderr)
		}
	}

	cfg, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if cfg.showVersion {
		fmt.Fprintf(stdout, "automata %s\n", version)
		return 0
	}
	if cfg.automatonFile == "" {
		printHelp(stderr, version)
		return 2
	}
	return evaluate(ctx, cfg, stdin, stdout, stderr)
}

// parseFlags parses evaluate-mode flags. The first positional argument is the
// automaton; the rest are words.
func parseFlags(args []string, stderr io.Writer) (config, error) {
	var cfg config

	fs := flag.NewFlagSet("automata", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&cfg.validateOnly, "validate", false, "Load and check the automaton only")
	fs.BoolVar(&cfg.lint, "lint", false, "Print diagnostics about the automaton")
	fs.BoolVar(&cfg.trace, "trace", false, "Print the transitions taken for each word")
	fs.StringVar(&cfg.renderFormat, "render", "", "Write a graph in this format (dot, svg, png)")
	fs.IntVar(&cfg.workers, "workers", 0, "Evaluation parallelism (default from config: 4)")
	fs.StringVar(&cfg.configFile, "config", "", "Settings file")
	fs.StringVar(&cfg.wordsFile, "words", "", "Read words from a file, one per line")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		printHelp(stderr, version)
	}

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if fs.NArg() > 0 {
		cfg.automatonFile = fs.Arg(0)
		cfg.words = fs.Args()[1:]
	}
	return cfg, nil
}

// loadSettings reads the config file and applies a positive workers override.
func loadSettings(path string, workers int) (appconfig.Config, error) {
	settings, err := appconfig.Load(path)
	if err != nil {
		return appconfig.Config{}, err
	}
	if workers > 0 {
		settings.Workers = workers
	}
	return settings, nil
}

// resolveAutomatonPath appends ".txt" when path lacks it and does not exist as given.
func resolveAutomatonPath(path string) string {
	if strings.HasSuffix(path, ".txt") {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return path + ".txt"
}

func evaluate(ctx context.Context, cfg config, stdin io.Reader, stdout, stderr io.Writer) int {
	settings, err := loadSettings(cfg.configFile, cfg.workers)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	a, err := dfa.Load(resolveAutomatonPath(cfg.automatonFile))
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if cfg.lint || cfg.validateOnly {
		printDiagnostics(stdout, validator.Lint(a), cfg.lint)
	}
	if cfg.validateOnly {
		fmt.Fprintf(stdout, "ok: %d symbols, %d states, %d rules\n",
			len(a.Alphabet()), len(a.UniqueStates()), len(a.Rules()))
		return 0
	}

	// stdin is only consumed when nothing else says what to do.
	readStdin := len(cfg.words) == 0 && cfg.wordsFile == "" && !cfg.lint && cfg.renderFormat == ""
	words, err := collectWords(cfg, stdin, readStdin)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if cfg.renderFormat != "" {
		return renderGraph(ctx, a, cfg.renderFormat, words, stdout, stderr)
	}
	if len(words) == 0 {
		return 0
	}

	result, err := dfa.ProcessParallel(ctx, a, words, settings.Workers)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	printResults(stdout, a, words, result, cfg.trace)
	return 0
}

// collectWords gathers words from positional arguments, then the -words file,
// then stdin when readStdin is set.
func collectWords(cfg config, stdin io.Reader, readStdin bool) ([]string, error) {
	words := append([]string(nil), cfg.words...)

	if cfg.wordsFile != "" {
		f, err := os.Open(cfg.wordsFile)
		if err != nil {
			return nil, fmt.Errorf("open words file: %w", err)
		}
		defer f.Close()
		fromFile, err := readWords(f)
		if err != nil {
			return nil, fmt.Errorf("read words file %s: %w", cfg.wordsFile, err)
		}
		words = append(words, fromFile...)
	}

	if readStdin && stdin != nil {
		fromStdin, err := readWords(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		words = append(words, fromStdin...)
	}
	return words, nil
}

// readWords returns one word per line. A blank line is the empty word.
func readWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		words = append(words, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// printResults writes "word: LABEL" for each distinct word in first-seen order.
func printResults(w io.Writer, a *dfa.Automaton, words []string, result dfa.Result, withTrace bool) {
	r := lipgloss.NewRenderer(w)
	styles := map[dfa.Outcome]lipgloss.Style{
		dfa.Accepted: r.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		dfa.Rejected: r.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		dfa.Invalid:  r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}

	seen := make(map[string]bool, len(result))
	for _, word := range words {
		if seen[word] {
			continue
		}
		seen[word] = true
		outcome := result[word]
		fmt.Fprintf(w, "%s: %s\n", word, styles[outcome].Render(string(outcome)))
		if withTrace {
			fmt.Fprintf(w, "  %s\n", tui.FormatTrace(a.Trace(word)))
		}
	}
}

// printDiagnostics writes one line per finding. Info-level findings are only
// shown when verbose is set.
func printDiagnostics(w io.Writer, diags []dfa.Diagnostic, verbose bool) {
	for _, d := range diags {
		if d.Severity == "info" && !verbose {
			continue
		}
		fmt.Fprintf(w, "%s %s: %s\n", d.Severity, d.Rule, d.Message)
	}
}

// renderGraph writes the automaton graph. With exactly one word its path is overlaid.
func renderGraph(ctx context.Context, a *dfa.Automaton, format string, words []string, stdout, stderr io.Writer) int {
	var data []byte
	var err error
	if len(words) == 1 {
		tr := a.Trace(words[0])
		data, err = render.RenderDOTSource(ctx, render.ToDOTWithTrace(a, &tr), format)
	} else {
		data, err = render.Render(ctx, a, format)
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if _, err := stdout.Write(data); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func runServe(ctx context.Context, args []string, stderr io.Writer) int {
	var sc serveConfig
	fs := flag.NewFlagSet("automata serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&sc.addr, "addr", "", "Listen address (default from config: 127.0.0.1:2390)")
	fs.StringVar(&sc.dataDir, "data-dir", "", "Catalog directory (default: $XDG_DATA_HOME/automata)")
	fs.StringVar(&sc.configFile, "config", "", "Settings file")
	fs.IntVar(&sc.workers, "workers", 0, "Evaluation parallelism")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	settings, err := loadSettings(sc.configFile, sc.workers)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if sc.addr != "" {
		settings.ServerAddr = sc.addr
	}

	dbPath, err := resolveStorePath(settings.StorePath, sc.dataDir)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	st, err := store.Open(dbPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer st.Close()

	srv, err := web.NewServer(web.ServerConfig{
		Addr:     settings.ServerAddr,
		Store:    st,
		CacheTTL: settings.RenderCacheTTL,
		Workers:  settings.Workers,
	})
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintf(stderr, "automata %s serving on http://%s (catalog %s)\n", version, settings.ServerAddr, dbPath)
	if err := srv.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func runTUI(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("automata tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: automata tui <automaton[.txt]>")
		return 2
	}

	path := resolveAutomatonPath(fs.Arg(0))
	a, err := dfa.Load(path)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if err := tui.Run(strings.TrimSuffix(filepath.Base(fs.Arg(0)), ".txt"), a); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func runMCP(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("automata mcp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if err := mcpserver.Serve(ctx, version); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
