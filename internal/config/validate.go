package config

import (
	"errors"
	"fmt"

	"mosys/internal/kv"
	"mosys/internal/logging"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if _, err := kv.ParseStyle(c.Output.Style); err != nil {
		return fmt.Errorf("output.style: %w", err)
	}
	if c.Output.Style == kv.StyleSingle.String() {
		return errors.New("output.style: single requires a key and is only available through -s")
	}
	if err := c.validateLock(); err != nil {
		return err
	}
	if c.Dispatch.CommandTimeoutSeconds < 0 {
		return errors.New("dispatch.command_timeout_seconds must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, err := logging.ParseSeverity(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateLock() error {
	if !c.Lock.Enabled {
		return nil
	}
	if c.Lock.Path == "" {
		return errors.New("lock.path must be set when the lock is enabled")
	}
	if c.Lock.TimeoutSeconds < 0 {
		return errors.New("lock.timeout_seconds must be zero or positive")
	}
	return nil
}

// Threshold returns the configured starting severity.
func (c *Config) Threshold() logging.Severity {
	s, err := logging.ParseSeverity(c.Logging.Level)
	if err != nil {
		return logging.Err
	}
	return s
}

// Style returns the configured output style.
func (c *Config) Style() kv.Style {
	s, err := kv.ParseStyle(c.Output.Style)
	if err != nil {
		return kv.StyleValue
	}
	return s
}
