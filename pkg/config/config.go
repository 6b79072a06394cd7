// Package config handles loading and saving sentiboard configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/sentiboard/config.yaml
//   - State:   ~/.local/state/sentiboard/ (last selection)
//
// Values are layered: defaults, then the YAML file, then environment
// variables (a .env file in the working directory is honored), then flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/sentiboard/pkg/model"
)

// Environment variables that override file values.
const (
	EnvInfluencers = "SENTIBOARD_INFLUENCERS"
	EnvSentiment   = "SENTIBOARD_SENTIMENT"
	EnvMetric      = "SENTIBOARD_METRIC"
	EnvTopN        = "SENTIBOARD_TOP"
	EnvWatch       = "SENTIBOARD_WATCH"
	EnvExportDir   = "SENTIBOARD_EXPORT_DIR"
)

// DataConfig locates the two input files. Empty values fall back to
// discovery in the working directory.
type DataConfig struct {
	Influencers string `yaml:"influencers,omitempty"`
	Sentiment   string `yaml:"sentiment,omitempty"`
	Watch       *bool  `yaml:"watch,omitempty"` // Live reload on file change (default true)
}

// DashboardConfig holds the initial selector state.
type DashboardConfig struct {
	Channel string       `yaml:"channel,omitempty"`
	Metric  model.Metric `yaml:"metric"`
	TopN    int          `yaml:"top_n,omitempty"`
}

// ExportConfig controls chart and database exports.
type ExportConfig struct {
	Dir    string `yaml:"dir,omitempty"`
	Format string `yaml:"format,omitempty"` // png or svg
	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`
}

// Config is the top-level configuration.
type Config struct {
	Data      DataConfig      `yaml:"data,omitempty"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Export    ExportConfig    `yaml:"export,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Dashboard: DashboardConfig{
			Metric: model.MetricEngagementRate,
			TopN:   10,
		},
		Export: ExportConfig{
			Dir:    "sentiboard-export",
			Format: "png",
			Width:  1024,
			Height: 640,
		},
	}
}

// WatchEnabled reports whether live reload is on.
func (c Config) WatchEnabled() bool {
	return c.Data.Watch == nil || *c.Data.Watch
}

// ConfigDir returns the XDG config directory.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "sentiboard")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "sentiboard")
}

// StateDir returns the XDG state directory.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "sentiboard")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "sentiboard")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory and applies
// environment overrides. Returns defaults if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = LoadFrom(path); err != nil {
			return cfg, err
		}
	}
	return cfg, ApplyEnv(&cfg)
}

// LoadFrom reads config from a specific path without environment overrides.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Data.Influencers = expandHome(cfg.Data.Influencers)
	cfg.Data.Sentiment = expandHome(cfg.Data.Sentiment)
	cfg.Export.Dir = expandHome(cfg.Export.Dir)
	if cfg.Dashboard.TopN <= 0 {
		cfg.Dashboard.TopN = DefaultConfig().Dashboard.TopN
	}

	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with SENTIBOARD_* environment variables.
func ApplyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(EnvInfluencers)); v != "" {
		cfg.Data.Influencers = expandHome(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvSentiment)); v != "" {
		cfg.Data.Sentiment = expandHome(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvMetric)); v != "" {
		m, err := model.ParseMetric(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMetric, err)
		}
		cfg.Dashboard.Metric = m
	}
	if v := strings.TrimSpace(os.Getenv(EnvTopN)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s: want a positive integer, got %q", EnvTopN, v)
		}
		cfg.Dashboard.TopN = n
	}
	if v := strings.TrimSpace(os.Getenv(EnvWatch)); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWatch, err)
		}
		cfg.Data.Watch = &on
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportDir)); v != "" {
		cfg.Export.Dir = expandHome(v)
	}
	return nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
