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

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration for generated artifacts and logs.
type Paths struct {
	OutputDir   string `toml:"output_dir"`
	SegmentsDir string `toml:"segments_dir"`
	ImagesDir   string `toml:"images_dir"`
	LogDir      string `toml:"log_dir"`
}

// Providers selects the generation provider for each capability and carries
// the credentials real providers need at construction time.
//
// Recognized selection values per capability: "mock" (default, offline),
// "auto" (priority-ordered attempt chain), "stub", and the names of concrete
// providers ("vertex" for images). Unrecognized values fall back to mock with
// a logged warning.
type Providers struct {
	Image string `toml:"image"`
	Video string `toml:"video"`
	Audio string `toml:"audio"`

	VertexAPIKey    string `toml:"vertex_api_key"`
	VertexProjectID string `toml:"vertex_project_id"`
	VertexLocation  string `toml:"vertex_location"`

	// RequestTimeout bounds each individual provider call, in seconds.
	RequestTimeout int `toml:"request_timeout"`
}

// Pipeline contains tunables for candidate generation.
type Pipeline struct {
	NumCharacters int `toml:"num_characters"`
	NumLocations  int `toml:"num_locations"`
}

// Assembly contains retry configuration for final video assembly.
type Assembly struct {
	MaxRetries int `toml:"max_retries"`
	// RetryWait is the pause between assembly attempts, in seconds.
	RetryWait int `toml:"retry_wait"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for clipgen.
//
// Configuration sections by subsystem:
//   - Paths: artifact and log directories
//   - Providers: per-capability provider selection and credentials
//   - Pipeline: candidate generation counts
//   - Assembly: final assembly retry policy
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Providers     Providers     `toml:"providers"`
	Pipeline      Pipeline      `toml:"pipeline"`
	Assembly      Assembly      `toml:"assembly"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/clipgen/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second return value
// is the resolved path, the third reports whether the file existed.
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
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
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
		expanded, err := ExpandPath(path)
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

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("clipgen.toml")
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

// ExpandPath expands a leading ~ to the current user's home directory.
func ExpandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return filepath.Clean(path), nil
}

// EnsureDirectories creates the output, segment, image, and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.SegmentsDir, c.Paths.ImagesDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ProviderTimeout returns the per-call provider timeout as a duration.
func (c *Config) ProviderTimeout() time.Duration {
	if c.Providers.RequestTimeout <= 0 {
		return time.Duration(defaultProviderRequestTimeout) * time.Second
	}
	return time.Duration(c.Providers.RequestTimeout) * time.Second
}

// AssemblyRetryWait returns the pause between assembly attempts.
func (c *Config) AssemblyRetryWait() time.Duration {
	if c.Assembly.RetryWait < 0 {
		return 0
	}
	return time.Duration(c.Assembly.RetryWait) * time.Second
}

// CreateSample writes the embedded sample configuration to the target path.
func CreateSample(target string) error {
	return os.WriteFile(target, []byte(sampleConfig), 0o644)
}
