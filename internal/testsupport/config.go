package testsupport

import (
	"path/filepath"
	"testing"

	"mosys/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp paths per test.
// The lock is enabled with no wait and the journal is disabled.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Lock.Path = filepath.Join(base, "run", "mosys.lock")
	cfgVal.Lock.TimeoutSeconds = 0
	cfgVal.Journal.Enabled = false
	cfgVal.Journal.Path = filepath.Join(base, "state", "journal.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithPlatform pins the platform id on the test config.
func WithPlatform(id string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Platform.ID = id
	}
}

// WithRootPrefix points sysfs reads at root.
func WithRootPrefix(root string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Platform.RootPrefix = root
	}
}

// WithJournal enables the invocation journal below the temp directory.
func WithJournal(keep int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = true
		if keep > 0 {
			b.cfg.Journal.Keep = keep
		}
	}
}

// WithLevel sets the starting log threshold by name.
func WithLevel(level string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.Level = level
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Dir(cfg.Journal.Path))
}
