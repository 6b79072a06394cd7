package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/vanderheijden86/sentiboard/pkg/ttyguard"

	"github.com/vanderheijden86/sentiboard/pkg/config"
	"github.com/vanderheijden86/sentiboard/pkg/debug"
	"github.com/vanderheijden86/sentiboard/pkg/metrics"
	"github.com/vanderheijden86/sentiboard/pkg/ui"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	influencers string
	sentiment   string
	configPath  string
	envFile     string
	verbose     bool
	cpuProfile  string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	var stopProfile func()

	root := &cobra.Command{
		Use:   "sentiboard",
		Short: "Influencer marketing sentiment dashboard",
		Long: `sentiboard explores influencer engagement metrics and per-video comment
sentiment from two CSV files:

  influencers_data.csv             one row per channel
  detailed_sentiment_analysis.csv  one row per video

Run without a subcommand to open the interactive dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if g.verbose {
				l, err := zap.NewDevelopment()
				if err != nil {
					return fmt.Errorf("failed to initialize logger: %w", err)
				}
				debug.SetLogger(l.Named("sentiboard"))
			}
			if g.cpuProfile != "" {
				stop, err := startCPUProfile(g.cpuProfile)
				if err != nil {
					return err
				}
				stopProfile = stop
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if stopProfile != nil {
				stopProfile()
			}
			for _, s := range metrics.AllTimingStats() {
				debug.Dump("metric", s)
			}
			debug.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, g)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.influencers, "influencers", "", "Path to influencers_data.csv")
	pf.StringVar(&g.sentiment, "sentiment", "", "Path to detailed_sentiment_analysis.csv")
	pf.StringVar(&g.configPath, "config", "", "Config file (default: "+config.ConfigPath()+")")
	pf.StringVar(&g.envFile, "env-file", ".env", "Load environment variables from this file if it exists")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "Enable debug logging on stderr")
	pf.StringVar(&g.cpuProfile, "cpu-profile", "", "Write CPU profile to file")

	root.Flags().String("channel", "", "Initially selected channel")
	root.Flags().String("metric", "", "Initial ranking metric")
	root.Flags().Bool("no-watch", false, "Disable live reload")

	root.AddCommand(
		newSummaryCmd(g),
		newRankCmd(g),
		newReportCmd(g),
		newExportCmd(g),
		newVersionCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func startCPUProfile(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("could not start CPU profile: %w", err)
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

func runDashboard(cmd *cobra.Command, g *globalFlags) error {
	a, err := loadApp(cmd, g)
	if err != nil {
		return err
	}
	sel, err := a.selection(cmd, "")
	if err != nil {
		return err
	}
	noWatch, _ := cmd.Flags().GetBool("no-watch")

	opts := ui.Options{
		Cache:     a.cache,
		Selection: sel,
		Export:    a.exportOptions(),
	}
	if a.cfg.WatchEnabled() && !noWatch {
		w, err := a.newWatcher()
		if err != nil {
			debug.Warn("live reload disabled: %v", err)
		} else {
			opts.Watcher = w
		}
	}

	m, err := ui.NewModel(a.ds, opts)
	if err != nil {
		if opts.Watcher != nil {
			opts.Watcher.Stop()
		}
		return err
	}
	defer m.Stop()

	return runTUIProgram(m)
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set SENTIBOARD_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("SENTIBOARD_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}
