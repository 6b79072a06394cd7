package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/sentiboard/internal/datasource"
	"github.com/vanderheijden86/sentiboard/pkg/config"
	"github.com/vanderheijden86/sentiboard/pkg/dashboard"
	"github.com/vanderheijden86/sentiboard/pkg/debug"
	"github.com/vanderheijden86/sentiboard/pkg/export"
	"github.com/vanderheijden86/sentiboard/pkg/loader"
	"github.com/vanderheijden86/sentiboard/pkg/model"
	"github.com/vanderheijden86/sentiboard/pkg/watcher"
)

// app is the loaded state shared by the commands.
type app struct {
	cfg   config.Config
	paths loader.Paths
	cache *loader.Cache
	ds    *loader.Dataset
}

// loadConfig layers .env, the YAML file and SENTIBOARD_* variables.
func loadConfig(g *globalFlags) (config.Config, error) {
	if g.envFile != "" {
		if err := config.LoadDotEnv(g.envFile); err != nil {
			return config.Config{}, err
		}
	}
	if g.configPath == "" {
		return config.Load()
	}
	cfg, err := config.LoadFrom(g.configPath)
	if err != nil {
		return cfg, err
	}
	return cfg, config.ApplyEnv(&cfg)
}

// loadApp resolves the data files and loads them through the cache.
func loadApp(cmd *cobra.Command, g *globalFlags) (*app, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}

	paths, err := datasource.Resolve(datasource.Options{
		Flags:  loader.Paths{Influencers: g.influencers, Sentiment: g.sentiment},
		Config: loader.Paths{Influencers: cfg.Data.Influencers, Sentiment: cfg.Data.Sentiment},
	})
	if err != nil {
		return nil, fmt.Errorf("locating data files: %w (use --influencers and --sentiment)", err)
	}

	cache := loader.NewCache(paths)
	ds, err := cache.Get(cmd.Context())
	if err != nil {
		return nil, err
	}
	debug.Log("loaded %d influencers, %d sentiment rows", len(ds.Influencers), len(ds.Sentiment))

	return &app{cfg: cfg, paths: paths, cache: cache, ds: ds}, nil
}

// selection combines a positional channel, the --channel/--metric/--top flags
// where the command defines them, and the configured defaults.
func (a *app) selection(cmd *cobra.Command, channel string) (dashboard.Selection, error) {
	sel := dashboard.Selection{
		Channel: a.cfg.Dashboard.Channel,
		Metric:  a.cfg.Dashboard.Metric,
		TopN:    a.cfg.Dashboard.TopN,
	}

	if f := cmd.Flags().Lookup("channel"); f != nil && f.Changed {
		sel.Channel = f.Value.String()
	}
	if channel != "" {
		sel.Channel = channel
	}
	if f := cmd.Flags().Lookup("metric"); f != nil && f.Value.String() != "" {
		m, err := model.ParseMetric(f.Value.String())
		if err != nil {
			return sel, fmt.Errorf("--metric: %w (want one of %s)", err, metricChoices())
		}
		sel.Metric = m
	}
	if f := cmd.Flags().Lookup("top"); f != nil && f.Changed {
		n, err := cmd.Flags().GetInt("top")
		if err != nil {
			return sel, err
		}
		if n <= 0 {
			return sel, fmt.Errorf("--top: want a positive integer, got %d", n)
		}
		sel.TopN = n
	}
	return sel, nil
}

// exportOptions maps the export section of the config.
func (a *app) exportOptions() export.Options {
	opts := export.DefaultOptions(a.cfg.Export.Dir)
	if f, err := export.ParseFormat(a.cfg.Export.Format); err == nil {
		opts.Format = f
	}
	if a.cfg.Export.Width > 0 && a.cfg.Export.Height > 0 {
		opts.Size = export.ChartSize{Width: a.cfg.Export.Width, Height: a.cfg.Export.Height}
	}
	return opts
}

func (a *app) newWatcher() (*watcher.Watcher, error) {
	w, err := watcher.New(
		[]string{a.paths.Influencers, a.paths.Sentiment},
		watcher.WithOnError(func(err error) { debug.Warn("watcher: %v", err) }),
	)
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	return w, nil
}

func metricChoices() string {
	slugs := make([]string, len(model.Metrics))
	for i, m := range model.Metrics {
		slugs[i] = m.Slug()
	}
	return strings.Join(slugs, ", ")
}
