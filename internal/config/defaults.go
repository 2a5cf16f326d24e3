package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultConfigPath     = "~/.config/mosys/config.toml"
	projectConfigName     = "mosys.toml"
	defaultLogLevel       = "err"
	defaultLogFormat      = "console"
	defaultLogMaxSizeMB   = 10
	defaultLogMaxBackups  = 3
	defaultOutputStyle    = "value"
	defaultLockEnabled    = true
	defaultLockTimeout    = 5
	defaultJournalPath    = "~/.local/state/mosys/journal.db"
	defaultJournalKeep    = 500
	defaultCommandTimeout = 0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Logging: Logging{
			Level:      defaultLogLevel,
			Format:     defaultLogFormat,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
		},
		Output: Output{
			Style: defaultOutputStyle,
		},
		Lock: Lock{
			Enabled:        defaultLockEnabled,
			Path:           defaultLockPath(),
			TimeoutSeconds: defaultLockTimeout,
		},
		Journal: Journal{
			Path: defaultJournalPath,
			Keep: defaultJournalKeep,
		},
		Dispatch: Dispatch{
			CommandTimeoutSeconds: defaultCommandTimeout,
		},
	}
}

// defaultLockPath prefers the per-user runtime directory.
func defaultLockPath() string {
	if base, ok := os.LookupEnv("XDG_RUNTIME_DIR"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "mosys.lock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/mosys/mosys.lock"
	}
	return filepath.Join(home, ".cache", "mosys", "mosys.lock")
}
