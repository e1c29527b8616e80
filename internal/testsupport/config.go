// Package testsupport provides shared fixtures for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/phatcz/TiktokClipGenerator/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// Providers default to mock so tests never touch the network.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.SegmentsDir = filepath.Join(base, "output", "segments")
	cfg.Paths.ImagesDir = filepath.Join(base, "output", "images")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Assembly.RetryWait = 0

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithProviders sets all three provider selections at once.
func WithProviders(image, video, audio string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Providers.Image = image
		cfg.Providers.Video = video
		cfg.Providers.Audio = audio
	}
}

// WithVertexCredentials seeds fake credentials for registry construction
// tests.
func WithVertexCredentials() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Providers.VertexAPIKey = "test-key"
		cfg.Providers.VertexProjectID = "test-project"
	}
}
