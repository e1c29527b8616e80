package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phatcz/TiktokClipGenerator/internal/config"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("VERTEX_API_KEY", "")
	t.Setenv("VERTEX_PROJECT_ID", "")
	t.Setenv("VERTEX_LOCATION", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantOutput := filepath.Join(tempHome, ".local", "share", "clipgen", "output")
	if cfg.Paths.OutputDir != wantOutput {
		t.Fatalf("unexpected output dir: got %q want %q", cfg.Paths.OutputDir, wantOutput)
	}
	if cfg.Providers.Image != "mock" || cfg.Providers.Video != "mock" || cfg.Providers.Audio != "mock" {
		t.Fatalf("expected mock providers by default, got %+v", cfg.Providers)
	}
	if cfg.Pipeline.NumCharacters != 4 || cfg.Pipeline.NumLocations != 4 {
		t.Fatalf("unexpected pipeline defaults: %+v", cfg.Pipeline)
	}
	if cfg.Assembly.MaxRetries != 3 {
		t.Fatalf("unexpected assembly retries: %d", cfg.Assembly.MaxRetries)
	}
}

func TestLoadParsesFileAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`output_dir = "` + filepath.Join(dir, "out") + `"`,
		`segments_dir = "` + filepath.Join(dir, "out", "segments") + `"`,
		`log_dir = "` + filepath.Join(dir, "logs") + `"`,
		"[providers]",
		`image = " Vertex "`,
		`video = "AUTO"`,
		"[logging]",
		`format = "JSON"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected existing file at %s, got %s exists=%v", path, resolved, exists)
	}
	if cfg.Providers.Image != "vertex" {
		t.Fatalf("expected lowercased trimmed selection, got %q", cfg.Providers.Image)
	}
	if cfg.Providers.Video != "auto" {
		t.Fatalf("expected lowercased selection, got %q", cfg.Providers.Video)
	}
	if cfg.Providers.Audio != "mock" {
		t.Fatalf("expected default audio selection, got %q", cfg.Providers.Audio)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized log format, got %q", cfg.Logging.Format)
	}
}

func TestEnvOverridesVertexCredentials(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("VERTEX_API_KEY", "env-key")
	t.Setenv("VERTEX_PROJECT_ID", "env-project")
	t.Setenv("VERTEX_LOCATION", "europe-west4")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Providers.VertexAPIKey != "env-key" {
		t.Fatalf("expected env api key, got %q", cfg.Providers.VertexAPIKey)
	}
	if cfg.Providers.VertexProjectID != "env-project" {
		t.Fatalf("expected env project, got %q", cfg.Providers.VertexProjectID)
	}
	if cfg.Providers.VertexLocation != "europe-west4" {
		t.Fatalf("expected env location, got %q", cfg.Providers.VertexLocation)
	}
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported log format")
	}
}

func TestValidateRejectsTooManyCandidates(t *testing.T) {
	cfg := config.Default()
	cfg.Pipeline.NumCharacters = 9
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for candidate count above limit")
	}
}

func TestUnknownProviderValueSurvivesValidation(t *testing.T) {
	cfg := config.Default()
	cfg.Providers.Image = "definitely-not-a-provider"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unknown provider names must not fail validation: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(dir, "out")
	cfg.Paths.SegmentsDir = filepath.Join(dir, "out", "segments")
	cfg.Paths.ImagesDir = filepath.Join(dir, "out", "images")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, d := range []string{cfg.Paths.OutputDir, cfg.Paths.SegmentsDir, cfg.Paths.ImagesDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(d); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s, err=%v", d, err)
		}
	}
}
