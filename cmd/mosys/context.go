package main

import (
	"io"
	"strings"
	"sync"

	"mosys/internal/config"
	"mosys/internal/kv"
	"mosys/internal/logging"
	"mosys/internal/platform"
	"mosys/internal/platforms"
	"mosys/internal/sysinfo"
)

// runtimeDeps are the process-wide collaborators a run is wired from.
type runtimeDeps struct {
	facility *logging.Facility
	// devices overrides udev enumeration when set.
	devices sysinfo.DeviceSource
	// catalog builds the platform provider from the run's environment.
	catalog func(platforms.Env) (platform.Provider, error)
}

func defaultRuntime() runtimeDeps {
	return runtimeDeps{facility: logging.Default(), catalog: defaultCatalog}
}

func defaultCatalog(env platforms.Env) (platform.Provider, error) {
	registry, err := platforms.Catalog(env)
	if err != nil {
		return nil, err
	}
	return registry, nil
}

type cliFlags struct {
	configPath string
	pairs      bool
	long       bool
	single     string
	verbose    int
	tree       bool
	supported  bool
	platformID string
	force      bool
	history    int
	initConfig string
	overwrite  bool
}

type commandContext struct {
	flags *cliFlags
	deps  runtimeDeps

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(flags *cliFlags, deps runtimeDeps) *commandContext {
	if deps.facility == nil {
		deps.facility = logging.Default()
	}
	if deps.catalog == nil {
		deps.catalog = defaultCatalog
	}
	return &commandContext{flags: flags, deps: deps}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.flags.configPath))
		if err != nil {
			c.configErr = err
			return
		}
		if id := strings.TrimSpace(c.flags.platformID); id != "" {
			cfg.Platform.ID = id
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// outputStyle applies -k, -l and -s over the configured style. -s wins over
// -l, which wins over -k.
func (c *commandContext) outputStyle(cfg *config.Config) (kv.Style, string) {
	switch {
	case c.flags.single != "":
		return kv.StyleSingle, c.flags.single
	case c.flags.long:
		return kv.StyleLong, ""
	case c.flags.pairs:
		return kv.StylePair, ""
	default:
		return cfg.Style(), ""
	}
}

func loggingOptions(cfg *config.Config, stderr io.Writer) logging.Options {
	return logging.Options{
		Program:    programName,
		Threshold:  cfg.Threshold(),
		Format:     cfg.Logging.Format,
		Timestamps: cfg.Logging.Timestamps,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Writer:     stderr,
	}
}
