package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Logging contains configuration for diagnostic output.
type Logging struct {
	// Level is the starting threshold; each -v raises it one step.
	Level      string `toml:"level" env:"MOSYS_LOG_LEVEL"`
	Format     string `toml:"format" env:"MOSYS_LOG_FORMAT"`
	Timestamps bool   `toml:"timestamps"`
	// File additionally receives JSON records when set.
	File       string `toml:"file" env:"MOSYS_LOG_FILE"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Output contains the default key/value rendering.
type Output struct {
	Style string `toml:"style"`
}

// Platform pins detection and relocates sysfs reads.
type Platform struct {
	ID         string `toml:"id" env:"MOSYS_PLATFORM"`
	RootPrefix string `toml:"root_prefix" env:"MOSYS_ROOT_PREFIX"`
}

// Lock configures the machine lock taken around hardware access.
type Lock struct {
	Enabled        bool   `toml:"enabled"`
	Path           string `toml:"path" env:"MOSYS_LOCK_PATH"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Journal configures the invocation journal.
type Journal struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path" env:"MOSYS_JOURNAL_PATH"`
	// Keep bounds the number of retained entries.
	Keep int `toml:"keep"`
}

// Dispatch bounds command execution.
type Dispatch struct {
	// CommandTimeoutSeconds cancels the leaf context after the given time.
	// Zero disables the watchdog.
	CommandTimeoutSeconds int `toml:"command_timeout_seconds"`
}

// Config encapsulates all configuration values for mosys.
//
// Configuration sections by subsystem:
//   - Logging: threshold, format, and optional rotated log file
//   - Output: default key/value style
//   - Platform: pinned platform id and sysfs root prefix
//   - Lock: machine lock path and wait timeout
//   - Journal: SQLite invocation journal
//   - Dispatch: command watchdog
type Config struct {
	Logging  Logging  `toml:"logging"`
	Output   Output   `toml:"output"`
	Platform Platform `toml:"platform"`
	Lock     Lock     `toml:"lock"`
	Journal  Journal  `toml:"journal"`
	Dispatch Dispatch `toml:"dispatch"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file, then applies
// environment overrides. It returns the config, the resolved path, and
// whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, "", false, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// LockTimeout returns the lock wait as a duration.
func (c *Config) LockTimeout() time.Duration {
	return time.Duration(c.Lock.TimeoutSeconds) * time.Second
}

// CommandTimeout returns the dispatch watchdog, or zero when disabled.
func (c *Config) CommandTimeout() time.Duration {
	return time.Duration(c.Dispatch.CommandTimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
