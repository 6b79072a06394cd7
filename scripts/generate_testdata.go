//go:build ignore

// generate_testdata.go creates standard CSV datasets for benchmarking and
// manual testing of the dashboard.
// Usage: go run scripts/generate_testdata.go
//
// Creates one directory per size under testdata/benchmark/, each holding
// influencers_data.csv and detailed_sentiment_analysis.csv:
//
//	small   (20 channels, 5 videos each)
//	medium  (200 channels, 10 videos each)
//	large   (2000 channels, 20 videos each)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/sentiboard/pkg/loader"
	"github.com/vanderheijden86/sentiboard/pkg/testutil"
)

type datasetSpec struct {
	name     string
	channels int
	videos   int
}

var datasets = []datasetSpec{
	{"small", 20, 5},
	{"medium", 200, 10},
	{"large", 2000, 20},
}

func main() {
	outputDir := filepath.Join("testdata", "benchmark")

	for _, set := range datasets {
		fmt.Printf("Generating %s dataset (%d channels, %d videos each)...\n", set.name, set.channels, set.videos)

		gen := testutil.New(testutil.GeneratorConfig{
			Seed:             int64(set.channels), // Reproducible per-size
			Channels:         set.channels,
			VideosPerChannel: set.videos,
			NamePrefix:       "Bench",
			RepeatTitles:     true,
			MissingMetrics:   set.name == "large",
		})
		ds := gen.Dataset()

		dir := filepath.Join(outputDir, set.name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
			os.Exit(1)
		}
		paths := loader.DefaultPaths(dir)

		if err := writeFile(paths.Influencers, func(f *os.File) error {
			return loader.WriteInfluencers(f, ds.Influencers)
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", paths.Influencers, err)
			os.Exit(1)
		}
		if err := writeFile(paths.Sentiment, func(f *os.File) error {
			return loader.WriteSentiment(f, ds.Sentiment)
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", paths.Sentiment, err)
			os.Exit(1)
		}

		fmt.Printf("  Created %s (%d influencers, %d sentiment rows)\n", dir, len(ds.Influencers), len(ds.Sentiment))
	}

	fmt.Println("\nDone! Datasets created in", outputDir)
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
