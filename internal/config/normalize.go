package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeProviders()
	c.normalizePipeline()
	c.normalizeAssembly()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.OutputDir, err = ExpandPath(c.Paths.OutputDir); err != nil {
		return err
	}
	if c.Paths.SegmentsDir, err = ExpandPath(c.Paths.SegmentsDir); err != nil {
		return err
	}
	if c.Paths.ImagesDir, err = ExpandPath(c.Paths.ImagesDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return err
	}
	return nil
}

// normalizeProviders lowercases selection values and applies environment
// overrides for credentials. This is the only place the process environment
// is consulted; everything downstream receives the resolved struct.
func (c *Config) normalizeProviders() {
	c.Providers.Image = normalizeSelection(c.Providers.Image)
	c.Providers.Video = normalizeSelection(c.Providers.Video)
	c.Providers.Audio = normalizeSelection(c.Providers.Audio)

	if v := strings.TrimSpace(os.Getenv("VERTEX_API_KEY")); v != "" {
		c.Providers.VertexAPIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("VERTEX_PROJECT_ID")); v != "" {
		c.Providers.VertexProjectID = v
	}
	if v := strings.TrimSpace(os.Getenv("VERTEX_LOCATION")); v != "" {
		c.Providers.VertexLocation = v
	}
	if strings.TrimSpace(c.Providers.VertexLocation) == "" {
		c.Providers.VertexLocation = defaultVertexLocation
	}
	if c.Providers.RequestTimeout <= 0 {
		c.Providers.RequestTimeout = defaultProviderRequestTimeout
	}
}

func normalizeSelection(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return defaultProviderValue
	}
	return value
}

func (c *Config) normalizePipeline() {
	if c.Pipeline.NumCharacters <= 0 {
		c.Pipeline.NumCharacters = defaultNumCharacters
	}
	if c.Pipeline.NumLocations <= 0 {
		c.Pipeline.NumLocations = defaultNumLocations
	}
}

func (c *Config) normalizeAssembly() {
	if c.Assembly.MaxRetries < 0 {
		c.Assembly.MaxRetries = 0
	}
	if c.Assembly.RetryWait < 0 {
		c.Assembly.RetryWait = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
