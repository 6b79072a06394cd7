// Package export writes the dashboard to files: go-chart charts, a single
// snapshot card, a SQLite database, JSON and markdown.
package export

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/vanderheijden86/sentiboard/pkg/dashboard"
	"github.com/vanderheijden86/sentiboard/pkg/debug"
	"github.com/vanderheijden86/sentiboard/pkg/loader"
	"github.com/vanderheijden86/sentiboard/pkg/metrics"
)

// Options selects what ExportView writes.
type Options struct {
	Dir      string
	Format   Format
	Size     ChartSize
	SQLite   bool
	JSON     bool
	Markdown bool
}

// DefaultOptions writes PNG charts only.
func DefaultOptions(dir string) Options {
	return Options{Dir: dir, Format: FormatPNG, Size: DefaultChartSize}
}

// Result lists what an export produced.
type Result struct {
	Files []string `json:"files"`
	// Skipped names charts with nothing to draw (for example a channel with
	// no sentiment rows).
	Skipped []string `json:"skipped,omitempty"`
}

// ExportView writes the charts for view and any extra artifacts requested by
// opts. A chart with no data is skipped, not an error.
func ExportView(ds *loader.Dataset, view dashboard.View, opts Options) (Result, error) {
	defer metrics.Timer(metrics.Export)()
	start := time.Now()

	if opts.Dir == "" {
		return Result{}, errors.New("export: no output directory")
	}
	if opts.Size.Width <= 0 || opts.Size.Height <= 0 {
		opts.Size = DefaultChartSize
	}
	if opts.Format == "" {
		opts.Format = FormatPNG
	}
	ext := opts.Format.Ext()
	base := slug(view.Selection.Channel)

	charts := []struct {
		name   string
		render func(io.Writer) error
	}{
		{base + "-sentiment" + ext, func(w io.Writer) error {
			return RenderSentimentPie(w, view.Sentiment, opts.Format, opts.Size)
		}},
		{base + "-trends" + ext, func(w io.Writer) error {
			return RenderTrendBars(w, view.Trends, opts.Format, opts.Size)
		}},
		{"ranking-" + view.Ranking.Metric.Slug() + ext, func(w io.Writer) error {
			return RenderRankingBars(w, view.Ranking, opts.Format, opts.Size)
		}},
	}

	var res Result
	for _, c := range charts {
		path := filepath.Join(opts.Dir, c.name)
		err := renderToFile(path, c.render)
		switch {
		case errors.Is(err, ErrEmptyChart):
			debug.Log("export: skipped empty chart %s", c.name)
			res.Skipped = append(res.Skipped, c.name)
		case err != nil:
			return res, fmt.Errorf("render %s: %w", c.name, err)
		default:
			res.Files = append(res.Files, path)
		}
	}

	snap := filepath.Join(opts.Dir, base+"-snapshot"+ext)
	if err := SaveSnapshot(snap, view); err != nil {
		return res, fmt.Errorf("snapshot: %w", err)
	}
	res.Files = append(res.Files, snap)

	if opts.JSON {
		p := filepath.Join(opts.Dir, base+".json")
		if err := SaveJSON(p, view); err != nil {
			return res, err
		}
		res.Files = append(res.Files, p)
	}
	if opts.Markdown {
		p := filepath.Join(opts.Dir, base+".md")
		md := GenerateMarkdown(view, time.Now())
		if err := renderToFile(p, func(w io.Writer) error {
			_, err := io.WriteString(w, md)
			return err
		}); err != nil {
			return res, err
		}
		res.Files = append(res.Files, p)
	}
	if opts.SQLite {
		p := filepath.Join(opts.Dir, DefaultSQLiteFile)
		if err := NewSQLiteExporter(ds).Export(p); err != nil {
			return res, fmt.Errorf("sqlite: %w", err)
		}
		res.Files = append(res.Files, p)
	}

	debug.LogTiming("export", time.Since(start))
	debug.Log("export: wrote %d files to %s", len(res.Files), opts.Dir)
	return res, nil
}
