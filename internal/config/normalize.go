package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeLogging()
	c.Output.Style = strings.ToLower(strings.TrimSpace(c.Output.Style))
	if c.Output.Style == "" {
		c.Output.Style = defaultOutputStyle
	}
	if err := c.normalizePlatform(); err != nil {
		return err
	}
	if err := c.normalizeLock(); err != nil {
		return err
	}
	return c.normalizeJournal()
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
	if c.Logging.File != "" {
		if expanded, err := expandPath(c.Logging.File); err == nil {
			c.Logging.File = expanded
		}
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups <= 0 {
		c.Logging.MaxBackups = defaultLogMaxBackups
	}
}

func (c *Config) normalizePlatform() error {
	c.Platform.ID = strings.TrimSpace(c.Platform.ID)
	c.Platform.RootPrefix = strings.TrimSpace(c.Platform.RootPrefix)
	if c.Platform.RootPrefix == "" {
		return nil
	}
	var err error
	if c.Platform.RootPrefix, err = expandPath(c.Platform.RootPrefix); err != nil {
		return fmt.Errorf("platform.root_prefix: %w", err)
	}
	return nil
}

func (c *Config) normalizeLock() error {
	if strings.TrimSpace(c.Lock.Path) == "" {
		c.Lock.Path = defaultLockPath()
	}
	var err error
	if c.Lock.Path, err = expandPath(strings.TrimSpace(c.Lock.Path)); err != nil {
		return fmt.Errorf("lock.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeJournal() error {
	if strings.TrimSpace(c.Journal.Path) == "" {
		c.Journal.Path = defaultJournalPath
	}
	var err error
	if c.Journal.Path, err = expandPath(strings.TrimSpace(c.Journal.Path)); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	if c.Journal.Keep <= 0 {
		c.Journal.Keep = defaultJournalKeep
	}
	return nil
}
