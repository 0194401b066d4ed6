// ABOUTME: XDG-based data directory resolution for the automata catalog database.
// ABOUTME: Checks XDG_DATA_HOME, falls back to ~/.local/share/automata.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "automata"

// defaultDataDir returns where the catalog lives when -data-dir is not given.
func defaultDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// resolveStorePath picks the database file: an explicit store path wins,
// then <dataDir>/automata.db, then the XDG default. The parent directory is created.
func resolveStorePath(storePath, dataDir string) (string, error) {
	if storePath == "" {
		if dataDir == "" {
			d, err := defaultDataDir()
			if err != nil {
				return "", err
			}
			dataDir = d
		}
		storePath = filepath.Join(dataDir, appName+".db")
	}
	if err := os.MkdirAll(filepath.Dir(storePath), 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return storePath, nil
}
