package config

import (
	"errors"
	"fmt"
)

// Validate checks structural configuration invariants. Provider selection
// values are deliberately not restricted here: unrecognized names fall back
// to mock at resolution time with a warning rather than failing the load.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateAssembly(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.OutputDir == "" {
		return errors.New("paths: output_dir must not be empty")
	}
	if c.Paths.SegmentsDir == "" {
		return errors.New("paths: segments_dir must not be empty")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths: log_dir must not be empty")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	const maxCandidates = 5
	if c.Pipeline.NumCharacters > maxCandidates {
		return fmt.Errorf("pipeline: num_characters must be at most %d, got %d", maxCandidates, c.Pipeline.NumCharacters)
	}
	if c.Pipeline.NumLocations > maxCandidates {
		return fmt.Errorf("pipeline: num_locations must be at most %d, got %d", maxCandidates, c.Pipeline.NumLocations)
	}
	return nil
}

func (c *Config) validateAssembly() error {
	if c.Assembly.MaxRetries > 10 {
		return fmt.Errorf("assembly: max_retries must be at most 10, got %d", c.Assembly.MaxRetries)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging: unsupported format %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging: unsupported level %q", c.Logging.Level)
	}
	return nil
}
