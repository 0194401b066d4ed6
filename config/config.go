// ABOUTME: Runtime settings for the automata CLI and server, layered defaults < config file < AUTOMATA_* env.
// ABOUTME: Backed by spf13/viper; flags in cmd/automata override the loaded values.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds settings shared by the serve, tui, mcp, and evaluate modes.
type Config struct {
	ServerAddr     string        // server.addr
	StorePath      string        // store.path; empty means <data-dir>/automata.db
	RenderCacheTTL time.Duration // render.cache_ttl
	Workers        int           // process.workers
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		ServerAddr:     "127.0.0.1:2390",
		RenderCacheTTL: 10 * time.Minute,
		Workers:        4,
	}
}

// Load reads settings. path may be empty, in which case only defaults and
// environment variables apply. A named file that cannot be read is an error.
func Load(path string) (Config, error) {
	d := Defaults()
	v := viper.New()
	v.SetDefault("server.addr", d.ServerAddr)
	v.SetDefault("store.path", d.StorePath)
	v.SetDefault("render.cache_ttl", d.RenderCacheTTL)
	v.SetDefault("process.workers", d.Workers)

	v.SetEnvPrefix("AUTOMATA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{
		ServerAddr:     v.GetString("server.addr"),
		StorePath:      v.GetString("store.path"),
		RenderCacheTTL: v.GetDuration("render.cache_ttl"),
		Workers:        v.GetInt("process.workers"),
	}
	if cfg.Workers <= 0 {
		return Config{}, fmt.Errorf("process.workers must be positive, got %d", cfg.Workers)
	}
	if cfg.RenderCacheTTL < 0 {
		return Config{}, fmt.Errorf("render.cache_ttl must not be negative, got %s", cfg.RenderCacheTTL)
	}
	return cfg, nil
}
