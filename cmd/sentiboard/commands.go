package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/sentiboard/pkg/analysis"
	"github.com/vanderheijden86/sentiboard/pkg/dashboard"
	"github.com/vanderheijden86/sentiboard/pkg/debug"
	"github.com/vanderheijden86/sentiboard/pkg/export"
	"github.com/vanderheijden86/sentiboard/pkg/hooks"
	"github.com/vanderheijden86/sentiboard/pkg/version"
)

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// terminalWidth is the render width for glamour output.
func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 100
}

func newSummaryCmd(g *globalFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "summary [channel]",
		Short: "Show metric cards and sentiment split for a channel",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, g)
			if err != nil {
				return err
			}
			sel, err := a.selection(cmd, firstArg(args))
			if err != nil {
				return err
			}
			view, err := dashboard.Build(a.ds, sel)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return export.WriteJSON(out, struct {
					Channel   string                         `json:"channel"`
					Cards     []dashboard.Card               `json:"cards"`
					Sentiment analysis.SentimentDistribution `json:"sentiment"`
					Shares    [3]float64                     `json:"proportions"`
				}{
					Channel:   view.Selection.Channel,
					Cards:     view.Cards,
					Sentiment: view.Sentiment.Distribution,
					Shares:    view.Sentiment.Proportions,
				})
			}
			export.WriteSummary(out, view)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newRankCmd(g *globalFlags) *cobra.Command {
	var (
		asJSON     bool
		asMarkdown bool
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank influencers by a metric",
		Example: `  sentiboard rank --metric total-score --top 5
  sentiboard rank --metric "Engagement Rate" --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON && asMarkdown {
				return errors.New("--json and --markdown are mutually exclusive")
			}
			a, err := loadApp(cmd, g)
			if err != nil {
				return err
			}
			sel, err := a.selection(cmd, "")
			if err != nil {
				return err
			}
			view, err := dashboard.Build(a.ds, sel)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				return export.WriteJSON(out, view.Ranking)
			case asMarkdown:
				_, err := io.WriteString(out, export.RankingMarkdown(view.Ranking))
				return err
			}
			fmt.Fprintln(out, view.Ranking.Title)
			export.WriteRankingTable(out, view.Ranking)
			return nil
		},
	}
	cmd.Flags().String("metric", "", "Ranking metric: "+metricChoices())
	cmd.Flags().Int("top", analysis.DefaultTopN, "Number of rows")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	cmd.Flags().BoolVar(&asMarkdown, "markdown", false, "Output a Markdown table")
	return cmd
}

func newReportCmd(g *globalFlags) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "report [channel]",
		Short: "Render the full dashboard as a Markdown report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, g)
			if err != nil {
				return err
			}
			sel, err := a.selection(cmd, firstArg(args))
			if err != nil {
				return err
			}
			view, err := dashboard.Build(a.ds, sel)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			md := export.GenerateMarkdown(view, time.Now())
			if raw {
				_, err := io.WriteString(out, md)
				return err
			}
			rendered, err := export.RenderTerminal(md, terminalWidth(out))
			if err != nil {
				return err
			}
			_, err = io.WriteString(out, rendered)
			return err
		},
	}
	cmd.Flags().String("metric", "", "Ranking metric: "+metricChoices())
	cmd.Flags().Int("top", analysis.DefaultTopN, "Number of ranking rows")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print Markdown source instead of rendering it")
	return cmd
}

func newExportCmd(g *globalFlags) *cobra.Command {
	var (
		out      string
		format   string
		sqlite   bool
		asJSON   bool
		markdown bool
		wizard   bool
		noHooks  bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write charts, a dashboard snapshot and optional data exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, g)
			if err != nil {
				return err
			}
			sel, err := a.selection(cmd, "")
			if err != nil {
				return err
			}

			opts := a.exportOptions()
			if cmd.Flags().Changed("out") || opts.Dir == "" {
				opts.Dir = out
			}
			if cmd.Flags().Changed("format") {
				if opts.Format, err = export.ParseFormat(format); err != nil {
					return err
				}
			}
			opts.SQLite, opts.JSON, opts.Markdown = sqlite, asJSON, markdown

			if wizard {
				view, err := dashboard.Build(a.ds, sel)
				if err != nil {
					return err
				}
				answers, err := export.NewWizard(view.Channels, export.WizardConfig{
					Channel:  view.Selection.Channel,
					Metric:   view.Selection.Metric.Slug(),
					Format:   string(opts.Format),
					Dir:      opts.Dir,
					SQLite:   opts.SQLite,
					JSON:     opts.JSON,
					Markdown: opts.Markdown,
				}).Run()
				if err != nil {
					return err
				}
				if sel, err = answers.Selection(sel.TopN); err != nil {
					return err
				}
				size := opts.Size
				if opts, err = answers.Options(); err != nil {
					return err
				}
				opts.Size = size
				if err := export.SaveWizardConfig(answers); err != nil {
					debug.Warn("could not save wizard answers: %v", err)
				}
			}

			view, err := dashboard.Build(a.ds, sel)
			if err != nil {
				return err
			}

			runner, err := hooks.RunHooks("", hooks.ExportContext{
				Dir:       opts.Dir,
				Format:    string(opts.Format),
				Channel:   view.Selection.Channel,
				Metric:    view.Selection.Metric.Slug(),
				Timestamp: time.Now(),
			}, noHooks)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if runner != nil {
				if err := runner.RunPreExport(); err != nil {
					fmt.Fprintln(w, runner.Summary())
					return err
				}
			}

			res, err := export.ExportView(a.ds, view, opts)
			if err != nil {
				return err
			}
			for _, f := range res.Files {
				fmt.Fprintf(w, "wrote %s (%s)\n", f, fileSize(f))
			}
			for _, s := range res.Skipped {
				fmt.Fprintf(w, "skipped %s (no data)\n", s)
			}

			if runner != nil {
				runner.SetFiles(res.Files)
				postErr := runner.RunPostExport()
				fmt.Fprintln(w, runner.Summary())
				return postErr
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&out, "out", "o", "sentiboard-export", "Output directory")
	f.String("channel", "", "Channel to export (default: first channel)")
	f.String("metric", "", "Ranking metric: "+metricChoices())
	f.Int("top", analysis.DefaultTopN, "Number of ranking rows")
	f.StringVar(&format, "format", "png", "Chart format: png or svg")
	f.BoolVar(&sqlite, "sqlite", false, "Also write "+export.DefaultSQLiteFile)
	f.BoolVar(&asJSON, "json", false, "Also write the dashboard view as JSON")
	f.BoolVar(&markdown, "markdown", false, "Also write a Markdown report")
	f.BoolVar(&wizard, "wizard", false, "Choose channel, metric and formats interactively")
	f.BoolVar(&noHooks, "no-hooks", false, "Skip pre- and post-export hooks")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Skip config and data loading.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "?"
	}
	return humanize.Bytes(uint64(info.Size()))
}
