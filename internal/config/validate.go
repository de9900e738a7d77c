package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.IncomingDir == "" {
		return errors.New("paths.incoming_dir must be set")
	}
	if c.Conversion.TargetPerSec < 1 {
		return fmt.Errorf("conversion.target_per_sec must be a positive integer, got %d", c.Conversion.TargetPerSec)
	}
	if c.Conversion.IngestWorkers < 1 {
		return fmt.Errorf("conversion.ingest_workers must be at least 1, got %d", c.Conversion.IngestWorkers)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
