// Package loader reads the influencer and sentiment CSV files into typed
// records.
//
// Both files must carry the exact column names the upstream analysis writes.
// Column order is free and extra columns are ignored.
package loader

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/sentiboard/pkg/debug"
	"github.com/vanderheijden86/sentiboard/pkg/metrics"
	"github.com/vanderheijden86/sentiboard/pkg/model"
)

// Default file names, resolved relative to the working directory.
const (
	DefaultInfluencersFile = "influencers_data.csv"
	DefaultSentimentFile   = "detailed_sentiment_analysis.csv"
)

// Column names of influencers_data.csv.
const (
	ColChannelName    = "Channel Name"
	ColSubscribers    = "Subscriber Count"
	ColAverageViews   = "Average Views per Video"
	ColEngagementRate = "Engagement Rate"
	ColSentimentWE    = "Sentiment Weighted Engagement"
	ColTotalScore     = "Total Score"
)

// Column names of detailed_sentiment_analysis.csv (plus ColChannelName).
const (
	ColVideoTitle = "Video Title"
	ColPositive   = "Positive"
	ColNeutral    = "Neutral"
	ColNegative   = "Negative"
)

// InfluencerColumns lists the required columns of the influencer file.
var InfluencerColumns = []string{
	ColChannelName, ColSubscribers, ColAverageViews,
	ColEngagementRate, ColSentimentWE, ColTotalScore,
}

// SentimentColumns lists the required columns of the sentiment file.
var SentimentColumns = []string{
	ColChannelName, ColVideoTitle, ColPositive, ColNeutral, ColNegative,
}

// ErrMissingColumn is returned when a required column is absent.
var ErrMissingColumn = errors.New("missing required column")

// ParseError reports a cell that could not be converted.
type ParseError struct {
	Source string
	Row    int // 1-based data row, header excluded
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: row %d, column %q: invalid value %q: %v", e.Source, e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Paths locates the two input files.
type Paths struct {
	Influencers string `yaml:"influencers" json:"influencers"`
	Sentiment   string `yaml:"sentiment" json:"sentiment"`
}

// DefaultPaths returns the conventional file names in dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		Influencers: filepath.Join(dir, DefaultInfluencersFile),
		Sentiment:   filepath.Join(dir, DefaultSentimentFile),
	}
}

// Dataset is the in-memory pair of tables for one load.
type Dataset struct {
	Influencers []model.Influencer
	Sentiment   []model.SentimentRecord
	Paths       Paths
	LoadedAt    time.Time
}

// LoadDataset reads both files concurrently.
func LoadDataset(ctx context.Context, paths Paths) (*Dataset, error) {
	defer metrics.Timer(metrics.CSVLoad)()
	defer debug.LogEnterExit("loader.LoadDataset")()

	ds := &Dataset{Paths: paths}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		recs, err := LoadInfluencers(paths.Influencers)
		if err != nil {
			return err
		}
		ds.Influencers = recs
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		recs, err := LoadSentiment(paths.Sentiment)
		if err != nil {
			return err
		}
		ds.Sentiment = recs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	ds.LoadedAt = time.Now()
	debug.Log("loaded %d influencers and %d sentiment rows", len(ds.Influencers), len(ds.Sentiment))
	return ds, nil
}

// LoadInfluencers reads the influencer summary file at path.
func LoadInfluencers(path string) ([]model.Influencer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open influencer data: %w", err)
	}
	defer f.Close()
	return ReadInfluencers(f, path)
}

// LoadSentiment reads the per-video sentiment file at path.
func LoadSentiment(path string) ([]model.SentimentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sentiment data: %w", err)
	}
	defer f.Close()
	return ReadSentiment(f, path)
}

// ReadInfluencers parses influencer rows from r. source names the input in
// error messages.
func ReadInfluencers(r io.Reader, source string) ([]model.Influencer, error) {
	cols, n, err := readColumns(r, source, InfluencerColumns)
	if err != nil {
		return nil, err
	}

	out := make([]model.Influencer, n)
	for i := 0; i < n; i++ {
		c := cells{source: source, row: i + 1, cols: cols, idx: i}
		inf := model.Influencer{
			ChannelName:                 c.str(ColChannelName),
			SubscriberCount:             c.int(ColSubscribers),
			AverageViews:                c.int(ColAverageViews),
			EngagementRate:              c.float(ColEngagementRate),
			SentimentWeightedEngagement: c.float(ColSentimentWE),
			TotalScore:                  c.float(ColTotalScore),
		}
		if c.err != nil {
			return nil, c.err
		}
		out[i] = inf
	}
	return out, nil
}

// ReadSentiment parses sentiment rows from r. source names the input in
// error messages.
func ReadSentiment(r io.Reader, source string) ([]model.SentimentRecord, error) {
	cols, n, err := readColumns(r, source, SentimentColumns)
	if err != nil {
		return nil, err
	}

	out := make([]model.SentimentRecord, n)
	for i := 0; i < n; i++ {
		c := cells{source: source, row: i + 1, cols: cols, idx: i}
		rec := model.SentimentRecord{
			ChannelName: c.str(ColChannelName),
			VideoTitle:  c.str(ColVideoTitle),
			SentimentCounts: model.SentimentCounts{
				Positive: c.count(ColPositive),
				Neutral:  c.count(ColNeutral),
				Negative: c.count(ColNegative),
			},
		}
		if c.err != nil {
			return nil, c.err
		}
		out[i] = rec
	}
	return out, nil
}

// readColumns loads r into a string-typed dataframe and returns the raw
// values of the required columns.
func readColumns(r io.Reader, source string, required []string) (map[string][]string, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: read: %w", source, err)
	}
	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		// gota rejects a file with a header and no rows.
		if header, ok := headerOnly(data); ok {
			return emptyColumns(source, header, required)
		}
		return nil, 0, fmt.Errorf("%s: read csv: %w", source, df.Err)
	}

	present := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		present[name] = true
	}
	cols := make(map[string][]string, len(required))
	for _, name := range required {
		if !present[name] {
			return nil, 0, fmt.Errorf("%s: %w %q", source, ErrMissingColumn, name)
		}
		s := df.Col(name)
		if s.Err != nil {
			return nil, 0, fmt.Errorf("%s: column %q: %w", source, name, s.Err)
		}
		cols[name] = s.Records()
	}
	return cols, df.Nrow(), nil
}

func headerOnly(data []byte) ([]string, bool) {
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil || len(rows) != 1 {
		return nil, false
	}
	return rows[0], true
}

func emptyColumns(source string, header, required []string) (map[string][]string, int, error) {
	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[name] = true
	}
	cols := make(map[string][]string, len(required))
	for _, name := range required {
		if !present[name] {
			return nil, 0, fmt.Errorf("%s: %w %q", source, ErrMissingColumn, name)
		}
		cols[name] = nil
	}
	return cols, 0, nil
}

// cells converts one row's values, keeping the first error.
type cells struct {
	source string
	row    int
	idx    int
	cols   map[string][]string
	err    error
}

func (c *cells) raw(col string) string {
	return strings.TrimSpace(c.cols[col][c.idx])
}

func (c *cells) fail(col, val string, err error) {
	if c.err == nil {
		c.err = &ParseError{Source: c.source, Row: c.row, Column: col, Value: val, Err: err}
	}
}

func (c *cells) str(col string) string {
	v := c.raw(col)
	if v == "NaN" {
		return ""
	}
	return v
}

// float treats an empty cell as NaN, which ranks last.
func (c *cells) float(col string) float64 {
	v := c.raw(col)
	if v == "" || v == "NaN" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		c.fail(col, v, err)
		return 0
	}
	return f
}

var errOutOfRange = errors.New("out of range")

// int accepts integral float spellings such as "1200.0".
func (c *cells) int(col string) int64 {
	v := c.raw(col)
	n, err := strconv.ParseInt(v, 10, 64)
	if err == nil {
		return n
	}
	if errors.Is(err, strconv.ErrRange) {
		c.fail(col, v, errOutOfRange)
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		c.fail(col, v, err)
		return 0
	}
	if !model.IsFinite(f) || f != math.Trunc(f) {
		c.fail(col, v, errors.New("not an integer"))
		return 0
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if f >= math.MaxInt64 || f < math.MinInt64 {
		c.fail(col, v, errOutOfRange)
		return 0
	}
	return int64(f)
}

func (c *cells) count(col string) int64 {
	n := c.int(col)
	if n < 0 {
		c.fail(col, c.raw(col), errors.New("count cannot be negative"))
		return 0
	}
	return n
}
