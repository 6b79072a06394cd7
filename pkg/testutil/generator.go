// Package testutil provides deterministic influencer datasets and CSV
// fixture helpers for tests.
package testutil

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vanderheijden86/sentiboard/pkg/loader"
	"github.com/vanderheijden86/sentiboard/pkg/model"
)

// GeneratorConfig controls dataset generation.
type GeneratorConfig struct {
	Seed             int64     // Random seed for determinism (0 = use current time)
	Channels         int       // Number of influencers (default: 12)
	VideosPerChannel int       // Sentiment rows per channel (default: 4)
	NamePrefix       string    // Prefix for channel names (default: "Channel")
	BaseTime         time.Time // Stamped as Dataset.LoadedAt (default: fixed time)
	// RepeatTitles reuses video titles within a channel so grouping has
	// something to sum.
	RepeatTitles bool
	// MissingMetrics leaves every fifth influencer's composite scores NaN.
	MissingMetrics bool
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:             42,
		Channels:         12,
		VideosPerChannel: 4,
		NamePrefix:       "Channel",
		BaseTime:         time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Generator creates deterministic datasets.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	def := DefaultConfig()
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.Channels <= 0 {
		cfg.Channels = def.Channels
	}
	if cfg.VideosPerChannel < 0 {
		cfg.VideosPerChannel = 0
	}
	if cfg.NamePrefix == "" {
		cfg.NamePrefix = def.NamePrefix
	}
	if cfg.BaseTime.IsZero() {
		cfg.BaseTime = def.BaseTime
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// NewDefault creates a Generator with DefaultConfig.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// ChannelName returns the generated name of channel i.
func (g *Generator) ChannelName(i int) string {
	return fmt.Sprintf("%s %02d", g.cfg.NamePrefix, i+1)
}

// Influencers generates the influencer table.
func (g *Generator) Influencers() []model.Influencer {
	out := make([]model.Influencer, g.cfg.Channels)
	for i := range out {
		subs := int64(1000 + g.rng.Intn(5_000_000))
		views := subs / int64(2+g.rng.Intn(20))
		er := round2(0.5 + g.rng.Float64()*12)
		swe := round2(er * (0.4 + g.rng.Float64()))
		total := round2(swe*10 + float64(subs)/1e5)
		if g.cfg.MissingMetrics && i%5 == 4 {
			swe, total = math.NaN(), math.NaN()
		}
		out[i] = model.Influencer{
			ChannelName:                 g.ChannelName(i),
			SubscriberCount:             subs,
			AverageViews:                views,
			EngagementRate:              er,
			SentimentWeightedEngagement: swe,
			TotalScore:                  total,
		}
	}
	return out
}

// Sentiment generates VideosPerChannel rows for each channel, interleaved
// across channels the way a scrape would append them.
func (g *Generator) Sentiment() []model.SentimentRecord {
	var out []model.SentimentRecord
	for v := 0; v < g.cfg.VideosPerChannel; v++ {
		for c := 0; c < g.cfg.Channels; c++ {
			title := fmt.Sprintf("Video %d", v+1)
			if g.cfg.RepeatTitles {
				title = fmt.Sprintf("Video %d", v%2+1)
			}
			out = append(out, model.SentimentRecord{
				ChannelName: g.ChannelName(c),
				VideoTitle:  title,
				SentimentCounts: model.SentimentCounts{
					Positive: int64(g.rng.Intn(400)),
					Neutral:  int64(g.rng.Intn(200)),
					Negative: int64(g.rng.Intn(100)),
				},
			})
		}
	}
	return out
}

// Dataset generates both tables.
func (g *Generator) Dataset() *loader.Dataset {
	return &loader.Dataset{
		Influencers: g.Influencers(),
		Sentiment:   g.Sentiment(),
		LoadedAt:    g.cfg.BaseTime,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Sample returns a small hand-written dataset with known values:
//
//   - ChannelA: 5.25% engagement, two videos titled "Intro" plus "Review"
//   - ChannelB: highest Total Score, one video
//   - ChannelC: ties ChannelA on Engagement Rate, no sentiment rows
func Sample() *loader.Dataset {
	return &loader.Dataset{
		Influencers: []model.Influencer{
			{ChannelName: "ChannelA", SubscriberCount: 1_234_567, AverageViews: 45_000, EngagementRate: 5.25, SentimentWeightedEngagement: 3.1, TotalScore: 72.5},
			{ChannelName: "ChannelB", SubscriberCount: 980_000, AverageViews: 120_500, EngagementRate: 3.4, SentimentWeightedEngagement: 2.8, TotalScore: 88.0},
			{ChannelName: "ChannelC", SubscriberCount: 15_200, AverageViews: 900, EngagementRate: 5.25, SentimentWeightedEngagement: 4.6, TotalScore: 40.25},
		},
		Sentiment: []model.SentimentRecord{
			{ChannelName: "ChannelA", VideoTitle: "Review", SentimentCounts: model.SentimentCounts{Positive: 30, Neutral: 10, Negative: 10}},
			{ChannelName: "ChannelB", VideoTitle: "Unboxing", SentimentCounts: model.SentimentCounts{Positive: 5, Neutral: 5, Negative: 0}},
			{ChannelName: "ChannelA", VideoTitle: "Intro", SentimentCounts: model.SentimentCounts{Positive: 20, Neutral: 20, Negative: 10}},
			{ChannelName: "ChannelA", VideoTitle: "Intro", SentimentCounts: model.SentimentCounts{Positive: 10, Neutral: 0, Negative: 0}},
		},
		LoadedAt: DefaultConfig().BaseTime,
	}
}
