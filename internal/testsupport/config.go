// Package testsupport provides fixtures shared across talkline tests: temp
// configs, sample annotation documents, and store helpers.
package testsupport

import (
	"path/filepath"
	"testing"

	"talkline/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.IncomingDir = filepath.Join(base, "incoming")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithTargetPerSec overrides the timeline resolution on the test config.
func WithTargetPerSec(perSec int64) ConfigOption {
	return func(c *config.Config) {
		c.Conversion.TargetPerSec = perSec
	}
}

// WithIngestWorkers overrides the batch worker count on the test config.
func WithIngestWorkers(workers int) ConfigOption {
	return func(c *config.Config) {
		c.Conversion.IngestWorkers = workers
	}
}
