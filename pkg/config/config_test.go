package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}
	if !cfg.Output.Color {
		t.Error("Output.Color should be true by default")
	}
	if cfg.Output.Locale != "en" {
		t.Errorf("Output.Locale = %s, want en", cfg.Output.Locale)
	}
	if cfg.Assess.Workers != 4 {
		t.Errorf("Assess.Workers = %d, want 4", cfg.Assess.Workers)
	}
	if cfg.Assess.CrossingThreshold != 25 {
		t.Errorf("Assess.CrossingThreshold = %f, want 25", cfg.Assess.CrossingThreshold)
	}
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be true by default")
	}
	if cfg.Cache.TTL != 24 {
		t.Errorf("Cache.TTL = %d, want 24", cfg.Cache.TTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "growth.toml")

	content := `
[output]
format = "json"
locale = "he"

[assess]
workers = 8
crossing_threshold = 30.5

[cache]
enabled = false
`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %s, want json", cfg.Output.Format)
	}
	if cfg.Output.Locale != "he" {
		t.Errorf("Output.Locale = %s, want he", cfg.Output.Locale)
	}
	if cfg.Assess.Workers != 8 {
		t.Errorf("Assess.Workers = %d, want 8", cfg.Assess.Workers)
	}
	if cfg.Assess.CrossingThreshold != 30.5 {
		t.Errorf("Assess.CrossingThreshold = %f, want 30.5", cfg.Assess.CrossingThreshold)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be false")
	}
	// Unset keys keep their defaults
	if cfg.Assess.MinTrendPoints != 3 {
		t.Errorf("Assess.MinTrendPoints = %d, want default 3", cfg.Assess.MinTrendPoints)
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "growth.yaml")

	content := `
output:
  format: markdown
  precision: 2
watch:
  debounce: 250
`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Output.Format != "markdown" {
		t.Errorf("Output.Format = %s, want markdown", cfg.Output.Format)
	}
	if cfg.Output.Precision != 2 {
		t.Errorf("Output.Precision = %d, want 2", cfg.Output.Precision)
	}
	if cfg.Watch.Debounce != 250 {
		t.Errorf("Watch.Debounce = %d, want 250", cfg.Watch.Debounce)
	}
}

func TestLoadJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "growth.json")

	content := `{
  "assess": {
    "workers": 2,
    "min_trend_points": 5
  },
  "output": {
    "format": "toon"
  }
}`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Assess.Workers != 2 {
		t.Errorf("Assess.Workers = %d, want 2", cfg.Assess.Workers)
	}
	if cfg.Assess.MinTrendPoints != 5 {
		t.Errorf("Assess.MinTrendPoints = %d, want 5", cfg.Assess.MinTrendPoints)
	}
	if cfg.Output.Format != "toon" {
		t.Errorf("Output.Format = %s, want toon", cfg.Output.Format)
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/growth.toml")
	if err == nil {
		t.Error("Load() should return error for non-existent file")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "growth.toml")

	content := `[output
invalid toml`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() should return error for invalid config")
	}
}

func TestLoadOrDefault(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	cfg := LoadOrDefault()
	if cfg == nil {
		t.Fatal("LoadOrDefault() returned nil")
	}
	if cfg.Assess.Workers != 4 {
		t.Errorf("LoadOrDefault() returned non-default Workers: %d", cfg.Assess.Workers)
	}
}

func TestLoadOrDefaultWithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	content := `
[assess]
workers = 16
`
	if err := os.MkdirAll(filepath.Join(tmpDir, ".growth"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, ".growth", "growth.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Chdir(tmpDir)

	cfg := LoadOrDefault()
	if cfg.Assess.Workers != 16 {
		t.Errorf("LoadOrDefault() should load from file, got Workers=%d", cfg.Assess.Workers)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults without file", func(t *testing.T) {
		t.Chdir(t.TempDir())

		result, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig() error: %v", err)
		}
		if result.Source != "" {
			t.Errorf("Source = %q, want empty", result.Source)
		}
	})

	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.toml")
		if err := os.WriteFile(path, []byte("[output]\nprecision = 3\n"), 0644); err != nil {
			t.Fatal(err)
		}

		result, err := LoadConfig(WithPath(path))
		if err != nil {
			t.Fatalf("LoadConfig() error: %v", err)
		}
		if result.Source != path {
			t.Errorf("Source = %q, want %q", result.Source, path)
		}
		if result.Config.Output.Precision != 3 {
			t.Errorf("Output.Precision = %d, want 3", result.Config.Output.Precision)
		}
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		content := "[output]\nformat = \"xml\"\n\n[assess]\nworkers = 0\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := LoadConfig(WithPath(path))
		if err == nil {
			t.Fatal("LoadConfig() should reject invalid values")
		}
		if !strings.Contains(err.Error(), "output.format") || !strings.Contains(err.Error(), "assess.workers") {
			t.Errorf("error should name every bad key, got: %v", err)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"md alias", func(c *Config) { c.Output.Format = "md" }, ""},
		{"bad locale", func(c *Config) { c.Output.Locale = "fr" }, "output.locale"},
		{"bad precision", func(c *Config) { c.Output.Precision = 9 }, "output.precision"},
		{"zero threshold", func(c *Config) { c.Assess.CrossingThreshold = 0 }, "assess.crossing_threshold"},
		{"one trend point", func(c *Config) { c.Assess.MinTrendPoints = 1 }, "assess.min_trend_points"},
		{"cache without dir", func(c *Config) { c.Cache.Dir = "" }, "cache.dir"},
		{"disabled cache without dir", func(c *Config) { c.Cache.Enabled = false; c.Cache.Dir = "" }, ""},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -1 }, "watch.debounce"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}
