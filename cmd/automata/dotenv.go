// ABOUTME: Loads AUTOMATA_* settings from a .env file at startup.
// ABOUTME: Existing environment variables always win over file values.
package main

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// parseDotEnv reads KEY=VALUE pairs. Blank lines and # comments are skipped,
// an "export " prefix is accepted, and one layer of matching quotes is removed.
func parseDotEnv(r io.Reader) map[string]string {
	vars := map[string]string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		// Values may themselves contain '='.
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		vars[key] = unquote(strings.TrimSpace(value))
	}
	return vars
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// loadDotEnv applies the variables in path that are not already set.
// A missing file is ignored. It returns how many variables were set.
func loadDotEnv(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	n := 0
	for key, value := range parseDotEnv(f) {
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if os.Setenv(key, value) == nil {
			n++
		}
	}
	return n
}

// loadDotEnvAuto loads .env from the working directory and then from the
// directory holding the executable.
func loadDotEnvAuto() {
	seen := map[string]bool{}
	for _, dir := range dotEnvDirs() {
		p := filepath.Join(dir, ".env")
		if seen[p] {
			continue
		}
		seen[p] = true
		loadDotEnv(p)
	}
}

func dotEnvDirs() []string {
	var dirs []string
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return dirs
}
