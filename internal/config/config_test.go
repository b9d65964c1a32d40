package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"asciisymphony/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

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

	wantWorkspace := filepath.Join(tempHome, ".local", "share", "asciisym", "workspace")
	if cfg.Paths.WorkspaceDir != wantWorkspace {
		t.Fatalf("unexpected workspace dir: got %q want %q", cfg.Paths.WorkspaceDir, wantWorkspace)
	}
	if cfg.Paths.PresetDir != filepath.Join(tempHome, ".config", "asciisym", "presets") {
		t.Fatalf("unexpected preset dir: %q", cfg.Paths.PresetDir)
	}
	if cfg.Render.Mode != "spectrum" {
		t.Fatalf("unexpected default mode: %q", cfg.Render.Mode)
	}
	if cfg.Render.Quality != "balanced" {
		t.Fatalf("unexpected default quality: %q", cfg.Render.Quality)
	}
	if !cfg.Monitor.Enabled {
		t.Fatal("expected monitor enabled by default")
	}
	if cfg.Monitor.TargetFPS != 30 {
		t.Fatalf("unexpected monitor target fps: %d", cfg.Monitor.TargetFPS)
	}
	if cfg.Tools.FFmpeg != "ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.Tools.FFmpeg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.WorkspaceDir, cfg.Paths.PresetDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadExplicitFileOverridesDefaults(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `
[render]
mode = "CQT"
fps = 24
quality = "high"

[monitor]
enabled = false
target_fps = 20

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Render.Mode != "cqt" {
		t.Fatalf("expected mode lowered to cqt, got %q", cfg.Render.Mode)
	}
	if cfg.Render.FPS != 24 {
		t.Fatalf("unexpected fps: %d", cfg.Render.FPS)
	}
	if cfg.Render.Quality != "high" {
		t.Fatalf("unexpected quality: %q", cfg.Render.Quality)
	}
	if cfg.Monitor.Enabled {
		t.Fatal("expected monitor disabled")
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
	// Unset sections keep defaults.
	if cfg.Render.Width != 1280 {
		t.Fatalf("unexpected width: %d", cfg.Render.Width)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cases := []struct {
		name     string
		contents string
		fragment string
	}{
		{"quality", "[render]\nquality = \"extreme\"\n", "render.quality"},
		{"fps", "[render]\nfps = 500\n", "render.fps"},
		{"charset", "[render]\ncharset = \"ebcdic\"\n", "render.charset"},
		{"monitor", "[monitor]\nmin_quality = \"potato\"\n", "monitor.min_quality"},
		{"logformat", "[logging]\nformat = \"yaml\"\n", "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.contents), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.fragment) {
				t.Fatalf("expected %q in error %q", tc.fragment, err)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Render.Mode != "spectrum" {
		t.Fatalf("sample config mode mismatch: %q", cfg.Render.Mode)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("sample config log format mismatch: %q", cfg.Logging.Format)
	}
}
