package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/vanderheijden86/sentiboard/pkg/config"
	"github.com/vanderheijden86/sentiboard/pkg/dashboard"
	"github.com/vanderheijden86/sentiboard/pkg/model"
)

// WizardConfig is what the export wizard collects. The last answers are
// saved and offered as defaults next time.
type WizardConfig struct {
	Channel  string `json:"channel"`
	Metric   string `json:"metric"`
	Format   string `json:"format"`
	Dir      string `json:"dir"`
	SQLite   bool   `json:"sqlite"`
	JSON     bool   `json:"json"`
	Markdown bool   `json:"markdown"`
}

// Selection converts the answers to a dashboard selection.
func (c WizardConfig) Selection(topN int) (dashboard.Selection, error) {
	m, err := model.ParseMetric(c.Metric)
	if err != nil {
		return dashboard.Selection{}, err
	}
	return dashboard.Selection{Channel: c.Channel, Metric: m, TopN: topN}, nil
}

// Options converts the answers to export options.
func (c WizardConfig) Options() (Options, error) {
	f, err := ParseFormat(c.Format)
	if err != nil {
		return Options{}, err
	}
	if c.Dir == "" {
		return Options{}, errors.New("no output directory")
	}
	return Options{
		Dir:      c.Dir,
		Format:   f,
		Size:     DefaultChartSize,
		SQLite:   c.SQLite,
		JSON:     c.JSON,
		Markdown: c.Markdown,
	}, nil
}

// Wizard asks which channel, metric and formats to export.
type Wizard struct {
	channels []string
	config   WizardConfig
	out      io.Writer
}

// NewWizard seeds the wizard with defaults. A saved channel that no longer
// exists falls back to the first channel.
func NewWizard(channels []string, defaults WizardConfig) *Wizard {
	w := &Wizard{channels: channels, config: defaults, out: os.Stdout}
	if saved, err := LoadWizardConfig(); err == nil && saved != nil {
		w.config = mergeWizardConfig(w.config, *saved)
	}
	if !contains(channels, w.config.Channel) && len(channels) > 0 {
		w.config.Channel = channels[0]
	}
	if _, err := model.ParseMetric(w.config.Metric); err != nil {
		w.config.Metric = model.MetricEngagementRate.Slug()
	}
	if _, err := ParseFormat(w.config.Format); err != nil {
		w.config.Format = string(FormatPNG)
	}
	return w
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Run asks the questions and saves the answers.
func (w *Wizard) Run() (WizardConfig, error) {
	if len(w.channels) == 0 {
		return WizardConfig{}, dashboard.ErrNoInfluencers
	}
	fmt.Fprintln(w.out, "Export charts for one channel")
	fmt.Fprintln(w.out, "─────────────────────────────")

	channelOpts := make([]huh.Option[string], 0, len(w.channels))
	for _, c := range w.channels {
		channelOpts = append(channelOpts, huh.NewOption(c, c))
	}
	metricOpts := make([]huh.Option[string], 0, len(model.Metrics))
	for _, m := range model.Metrics {
		metricOpts = append(metricOpts, huh.NewOption(m.String(), m.Slug()))
	}

	form := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Channel").
				Options(channelOpts...).
				Value(&w.config.Channel),
			huh.NewSelect[string]().
				Title("Rank influencers by").
				Options(metricOpts...).
				Value(&w.config.Metric),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Chart format").
				Options(
					huh.NewOption("PNG image", string(FormatPNG)),
					huh.NewOption("SVG vector", string(FormatSVG)),
				).
				Value(&w.config.Format),
			huh.NewInput().
				Title("Output directory").
				Value(&w.config.Dir).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("output directory is required")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Also write a SQLite database?").
				Value(&w.config.SQLite),
			huh.NewConfirm().
				Title("Also write JSON and markdown?").
				Value(&w.config.JSON),
		),
	)
	if err := form.Run(); err != nil {
		return WizardConfig{}, err
	}
	w.config.Markdown = w.config.JSON

	if err := SaveWizardConfig(w.config); err != nil {
		fmt.Fprintf(w.out, "Warning: could not save wizard answers: %v\n", err)
	}
	return w.config, nil
}

// WizardConfigPath is where the last wizard answers are kept.
func WizardConfigPath() string {
	return filepath.Join(config.StateDir(), "export-wizard.json")
}

// LoadWizardConfig reads the saved answers; a missing file returns nil.
func LoadWizardConfig() (*WizardConfig, error) {
	data, err := os.ReadFile(WizardConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var cfg WizardConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", WizardConfigPath(), err)
	}
	return &cfg, nil
}

// SaveWizardConfig writes the answers for next time.
func SaveWizardConfig(cfg WizardConfig) error {
	return SaveJSON(WizardConfigPath(), cfg)
}

// mergeWizardConfig fills empty fields of base from saved. Explicit
// defaults from the command line win over saved answers.
func mergeWizardConfig(base, saved WizardConfig) WizardConfig {
	if base.Channel == "" {
		base.Channel = saved.Channel
	}
	if base.Metric == "" {
		base.Metric = saved.Metric
	}
	if base.Format == "" {
		base.Format = saved.Format
	}
	if base.Dir == "" {
		base.Dir = saved.Dir
	}
	base.SQLite = base.SQLite || saved.SQLite
	base.JSON = base.JSON || saved.JSON
	base.Markdown = base.Markdown || saved.Markdown
	return base
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
