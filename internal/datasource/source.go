// Package datasource decides which influencer and sentiment files the
// dashboard reads. Candidates come from flags, configuration and the
// conventional locations next to the working directory; the most
// authoritative existing candidate wins for each file.
package datasource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/vanderheijden86/sentiboard/pkg/debug"
	"github.com/vanderheijden86/sentiboard/pkg/loader"
)

// Origin identifies where a candidate path came from.
type Origin string

const (
	OriginFlag    Origin = "flag"
	OriginConfig  Origin = "config"
	OriginWorkDir Origin = "workdir"
	OriginDataDir Origin = "datadir"
)

// Priority values per origin (higher = more authoritative).
const (
	PriorityFlag    = 100
	PriorityConfig  = 80
	PriorityWorkDir = 50
	PriorityDataDir = 40
)

// ErrNotFound is returned when no candidate exists for a file.
var ErrNotFound = errors.New("data file not found")

// DataSource is one candidate location for an input file.
type DataSource struct {
	Path     string    `json:"path"`
	Origin   Origin    `json:"origin"`
	Priority int       `json:"priority"`
	Exists   bool      `json:"exists"`
	ModTime  time.Time `json:"mod_time,omitempty"`
	Size     int64     `json:"size,omitempty"`
}

// String returns a human-readable description of the source.
func (s DataSource) String() string {
	if !s.Exists {
		return fmt.Sprintf("%s (%s, missing)", s.Path, s.Origin)
	}
	return fmt.Sprintf("%s (%s, priority=%d, mod=%s, %d bytes)",
		s.Path, s.Origin, s.Priority, s.ModTime.Format(time.RFC3339), s.Size)
}

// Options lists the explicit locations to consider. Empty fields are skipped.
type Options struct {
	Flags   loader.Paths // from command-line flags
	Config  loader.Paths // from config file or environment
	WorkDir string       // defaults to the current directory
}

// Discover returns the candidates for the influencer and sentiment files,
// each sorted by descending priority.
func Discover(opts Options) (influencers, sentiment []DataSource, err error) {
	workDir := opts.WorkDir
	if workDir == "" {
		if workDir, err = os.Getwd(); err != nil {
			return nil, nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
	}
	wd := loader.DefaultPaths(workDir)
	dd := loader.DefaultPaths(filepath.Join(workDir, "data"))

	influencers = candidates(
		DataSource{Path: opts.Flags.Influencers, Origin: OriginFlag, Priority: PriorityFlag},
		DataSource{Path: opts.Config.Influencers, Origin: OriginConfig, Priority: PriorityConfig},
		DataSource{Path: wd.Influencers, Origin: OriginWorkDir, Priority: PriorityWorkDir},
		DataSource{Path: dd.Influencers, Origin: OriginDataDir, Priority: PriorityDataDir},
	)
	sentiment = candidates(
		DataSource{Path: opts.Flags.Sentiment, Origin: OriginFlag, Priority: PriorityFlag},
		DataSource{Path: opts.Config.Sentiment, Origin: OriginConfig, Priority: PriorityConfig},
		DataSource{Path: wd.Sentiment, Origin: OriginWorkDir, Priority: PriorityWorkDir},
		DataSource{Path: dd.Sentiment, Origin: OriginDataDir, Priority: PriorityDataDir},
	)
	return influencers, sentiment, nil
}

func candidates(in ...DataSource) []DataSource {
	out := make([]DataSource, 0, len(in))
	for _, s := range in {
		if s.Path == "" {
			continue
		}
		if abs, err := filepath.Abs(s.Path); err == nil {
			s.Path = abs
		}
		if info, err := os.Stat(s.Path); err == nil && !info.IsDir() {
			s.Exists = true
			s.ModTime = info.ModTime()
			s.Size = info.Size()
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out
}

// Select returns the best candidate. An explicit flag path is returned even
// when missing so the caller reports the path the user asked for.
func Select(sources []DataSource) (DataSource, error) {
	for _, s := range sources {
		if s.Origin == OriginFlag {
			return s, nil
		}
	}
	for _, s := range sources {
		if s.Exists {
			return s, nil
		}
	}
	if len(sources) == 0 {
		return DataSource{}, ErrNotFound
	}
	tried := make([]string, len(sources))
	for i, s := range sources {
		tried[i] = s.Path
	}
	return DataSource{}, fmt.Errorf("%w (tried %v)", ErrNotFound, tried)
}

// Resolve discovers and selects both files.
func Resolve(opts Options) (loader.Paths, error) {
	infs, sents, err := Discover(opts)
	if err != nil {
		return loader.Paths{}, err
	}
	inf, err := Select(infs)
	if err != nil {
		return loader.Paths{}, fmt.Errorf("%s: %w", loader.DefaultInfluencersFile, err)
	}
	sent, err := Select(sents)
	if err != nil {
		return loader.Paths{}, fmt.Errorf("%s: %w", loader.DefaultSentimentFile, err)
	}
	debug.Log("selected data sources: %s | %s", inf, sent)
	return loader.Paths{Influencers: inf.Path, Sentiment: sent.Path}, nil
}
