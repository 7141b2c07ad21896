// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds everything teller reads from the environment.
type Config struct {
	// APIURL is the base URL of the banking backend.
	APIURL string `env:"TELLER_API_URL" envDefault:"https://api.tellerbank.app"`
	// Token overrides the stored credential when set. Read-only: sign-in
	// and sign-out never touch it.
	Token string `env:"TELLER_TOKEN"`
	// ConfigDir is where the credential slot lives. Defaults to ~/.teller.
	ConfigDir string `env:"TELLER_CONFIG_DIR"`
	// DebugLog, when set, is a file path receiving slog debug output. The
	// TUI owns stdout, so this is the only place request logs can go.
	DebugLog string `env:"TELLER_DEBUG_LOG"`
}

// Load parses the environment and fills in the config dir default.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if cfg.ConfigDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("config: get home dir: %w", err)
		}
		cfg.ConfigDir = filepath.Join(home, ".teller")
	}
	return cfg, nil
}
