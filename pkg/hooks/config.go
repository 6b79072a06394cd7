// Package hooks runs user-defined shell commands around an export.
// Hooks are configured in .sentiboard/hooks.yaml in the working directory
// (or hooks.yaml in the sentiboard config directory) and run at two points:
// pre-export and post-export.
package hooks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/sentiboard/pkg/config"
)

// HookPhase represents when a hook runs
type HookPhase string

const (
	// PreExport runs before any file is written. Failure cancels the export.
	PreExport HookPhase = "pre-export"
	// PostExport runs after the export. Failure is reported but the files stay.
	PostExport HookPhase = "post-export"
)

// On-error policies.
const (
	OnErrorFail     = "fail"
	OnErrorContinue = "continue"
)

// Hook defines a single hook configuration
type Hook struct {
	Name    string            `yaml:"name" json:"name"`
	Command string            `yaml:"command" json:"command"` // run with sh -c
	Timeout time.Duration     `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	Env     map[string]string `yaml:"env,omitempty" json:"env,omitempty"` // values are ${VAR}-expanded
	OnError string            `yaml:"on_error,omitempty" json:"on_error,omitempty"`
}

// Config holds all hook configurations
type Config struct {
	Hooks HooksByPhase `yaml:"hooks" json:"hooks"`
}

// HooksByPhase organizes hooks by their execution phase
type HooksByPhase struct {
	PreExport  []Hook `yaml:"pre-export,omitempty" json:"pre-export,omitempty"`
	PostExport []Hook `yaml:"post-export,omitempty" json:"post-export,omitempty"`
}

// ExportContext describes the export to the hook through environment
// variables.
type ExportContext struct {
	Dir       string    // SENTIBOARD_EXPORT_DIR
	Format    string    // SENTIBOARD_EXPORT_FORMAT: png or svg
	Channel   string    // SENTIBOARD_EXPORT_CHANNEL
	Metric    string    // SENTIBOARD_EXPORT_METRIC (slug)
	Files     []string  // SENTIBOARD_EXPORT_FILES, joined with the OS list separator; empty before export
	Timestamp time.Time // SENTIBOARD_TIMESTAMP (RFC3339)
}

// ToEnv converts export context to environment variables
func (c ExportContext) ToEnv() []string {
	return []string{
		"SENTIBOARD_EXPORT_DIR=" + c.Dir,
		"SENTIBOARD_EXPORT_FORMAT=" + c.Format,
		"SENTIBOARD_EXPORT_CHANNEL=" + c.Channel,
		"SENTIBOARD_EXPORT_METRIC=" + c.Metric,
		"SENTIBOARD_EXPORT_FILES=" + strings.Join(c.Files, string(os.PathListSeparator)),
		"SENTIBOARD_TIMESTAMP=" + c.Timestamp.Format(time.RFC3339),
	}
}

// DefaultTimeout is the default hook execution timeout
const DefaultTimeout = 30 * time.Second

// ProjectFile is the hooks file path relative to the project directory.
var ProjectFile = filepath.Join(".sentiboard", "hooks.yaml")

// Loader loads hook configuration.
type Loader struct {
	projectDir string
	path       string
	config     *Config
	warnings   []string
}

// LoaderOption configures the loader
type LoaderOption func(*Loader)

// WithProjectDir sets the project directory (default: current directory)
func WithProjectDir(dir string) LoaderOption {
	return func(l *Loader) {
		l.projectDir = dir
	}
}

// NewLoader creates a new hook loader with options
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.projectDir == "" {
		l.projectDir, _ = os.Getwd()
	}
	return l
}

// configPaths lists the candidate files, project first.
func (l *Loader) configPaths() []string {
	paths := []string{filepath.Join(l.projectDir, ProjectFile)}
	if dir := config.ConfigDir(); dir != "" {
		paths = append(paths, filepath.Join(dir, "hooks.yaml"))
	}
	return paths
}

// Load reads the first hooks file that exists. No file means no hooks.
func (l *Loader) Load() error {
	l.config = &Config{}
	for _, path := range l.configPaths() {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("reading hooks config: %w", err)
		}

		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		cfg.Hooks.PreExport, l.warnings = normalizeHooks(cfg.Hooks.PreExport, PreExport, l.warnings)
		cfg.Hooks.PostExport, l.warnings = normalizeHooks(cfg.Hooks.PostExport, PostExport, l.warnings)
		l.config = &cfg
		l.path = path
		return nil
	}
	return nil
}

// normalizeHooks applies defaults, drops empty commands, and accumulates warnings.
func normalizeHooks(hooks []Hook, phase HookPhase, warnings []string) ([]Hook, []string) {
	var out []Hook
	for i := range hooks {
		hook := hooks[i]
		if strings.TrimSpace(hook.Command) == "" {
			warnings = append(warnings, fmt.Sprintf("%s hook %d has empty command; skipping", phase, i+1))
			continue
		}
		if hook.Timeout <= 0 {
			hook.Timeout = DefaultTimeout
		}
		switch hook.OnError {
		case OnErrorFail, OnErrorContinue:
		case "":
			if phase == PreExport {
				hook.OnError = OnErrorFail
			} else {
				hook.OnError = OnErrorContinue
			}
		default:
			warnings = append(warnings, fmt.Sprintf("%s hook %d: unknown on_error %q, using %q", phase, i+1, hook.OnError, OnErrorFail))
			hook.OnError = OnErrorFail
		}
		if hook.Name == "" {
			hook.Name = fmt.Sprintf("%s-%d", phase, i+1)
		}
		out = append(out, hook)
	}
	return out, warnings
}

// Config returns the loaded configuration (or empty if not loaded)
func (l *Loader) Config() *Config {
	if l.config == nil {
		return &Config{}
	}
	return l.config
}

// Path is the file the hooks were read from, empty if none.
func (l *Loader) Path() string { return l.path }

// HasHooks returns true if any hooks are configured
func (l *Loader) HasHooks() bool {
	if l.config == nil {
		return false
	}
	return len(l.config.Hooks.PreExport) > 0 || len(l.config.Hooks.PostExport) > 0
}

// GetHooks returns hooks for a specific phase
func (l *Loader) GetHooks(phase HookPhase) []Hook {
	if l.config == nil {
		return nil
	}
	switch phase {
	case PreExport:
		return l.config.Hooks.PreExport
	case PostExport:
		return l.config.Hooks.PostExport
	default:
		return nil
	}
}

// Warnings returns any warnings from loading
func (l *Loader) Warnings() []string {
	return l.warnings
}

// UnmarshalYAML accepts timeouts as durations ("5s") or plain seconds ("30").
func (h *Hook) UnmarshalYAML(node *yaml.Node) error {
	// Must mirror Hook except for Timeout.
	type hookDTO struct {
		Name    string            `yaml:"name"`
		Command string            `yaml:"command"`
		Timeout string            `yaml:"timeout,omitempty"`
		Env     map[string]string `yaml:"env,omitempty"`
		OnError string            `yaml:"on_error,omitempty"`
	}

	var dto hookDTO
	if err := node.Decode(&dto); err != nil {
		return err
	}

	h.Name = dto.Name
	h.Command = dto.Command
	h.Env = dto.Env
	h.OnError = dto.OnError

	if dto.Timeout != "" {
		d, err := time.ParseDuration(dto.Timeout)
		if err == nil {
			h.Timeout = d
		} else {
			var seconds float64
			if _, scanErr := fmt.Sscanf(dto.Timeout, "%f", &seconds); scanErr == nil {
				h.Timeout = time.Duration(seconds * float64(time.Second))
			} else {
				return fmt.Errorf("invalid timeout %q: %w", dto.Timeout, err)
			}
		}
	}
	return nil
}
