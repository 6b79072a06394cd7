// Package dashboard composes the full dashboard for one selection.
//
// Build is re-run from scratch whenever the channel or ranking metric
// changes, the same way every front end (TUI, CLI, exports) renders.
package dashboard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/vanderheijden86/sentiboard/pkg/analysis"
	"github.com/vanderheijden86/sentiboard/pkg/loader"
	"github.com/vanderheijden86/sentiboard/pkg/metrics"
	"github.com/vanderheijden86/sentiboard/pkg/model"
)

// Fixed dashboard copy.
const (
	Title       = "Influencer Marketing Sentiment Analysis Dashboard"
	Description = "This dashboard helps you analyze influencer performance based on engagement metrics and sentiment analysis.\n" +
		"You can explore influencer rankings, compare sentiment trends, and predict future engagement insights."
	// The heading and description keep the published wording. Only historical
	// counts are charted.
	TrendsHeading     = "Historical and Predicted Engagement Trends"
	TrendsDescription = "This chart compares historical engagement data with predicted trends for the selected influencer."
	Footer            = "This project analyzes influencers' engagement and sentiment to help businesses choose the best-fit influencers for their campaigns."
)

var (
	// ErrNoInfluencers is returned when the influencer table is empty.
	ErrNoInfluencers = errors.New("no influencers loaded")
	// ErrUnknownChannel is returned when the selected channel is not in the
	// influencer table.
	ErrUnknownChannel = errors.New("unknown channel")
)

// Selection is the state of the two selectors.
type Selection struct {
	Channel string       `json:"channel"`
	Metric  model.Metric `json:"metric"`
	TopN    int          `json:"top_n"`
}

// Card is one metric display.
type Card struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// String renders the card as "Label: Value".
func (c Card) String() string {
	return c.Label + ": " + c.Value
}

// SentimentPanel is the per-channel sentiment split.
type SentimentPanel struct {
	Title        string                         `json:"title"`
	Distribution analysis.SentimentDistribution `json:"distribution"`
	Proportions  [3]float64                     `json:"proportions"`
}

// TrendPanel is the per-video stacked breakdown.
type TrendPanel struct {
	Title  string                    `json:"title"`
	Videos []analysis.VideoSentiment `json:"videos"`
}

// RankingPanel is the top-N ranking for the selected metric.
type RankingPanel struct {
	Title  string            `json:"title"`
	Metric model.Metric      `json:"metric"`
	Rows   []analysis.Ranked `json:"rows"`
	Stats  analysis.Stats    `json:"stats"`
}

// View is everything the dashboard shows for one Selection.
type View struct {
	Selection  Selection        `json:"selection"`
	Channels   []string         `json:"channels"`
	Influencer model.Influencer `json:"influencer"`
	Cards      []Card           `json:"cards"`
	Sentiment  SentimentPanel   `json:"sentiment"`
	Trends     TrendPanel       `json:"trends"`
	Ranking    RankingPanel     `json:"ranking"`
	LoadedAt   time.Time        `json:"loaded_at"`
}

// Build computes the View for sel. An empty channel selects the first
// channel; TopN <= 0 uses analysis.DefaultTopN.
func Build(ds *loader.Dataset, sel Selection) (View, error) {
	defer metrics.Timer(metrics.ViewBuild)()

	if ds == nil || len(ds.Influencers) == 0 {
		return View{}, ErrNoInfluencers
	}
	if !sel.Metric.Valid() {
		return View{}, fmt.Errorf("%w: %d", model.ErrUnknownMetric, int(sel.Metric))
	}
	if sel.TopN <= 0 {
		sel.TopN = analysis.DefaultTopN
	}

	channels := analysis.Channels(ds.Influencers)
	if strings.TrimSpace(sel.Channel) == "" {
		sel.Channel = channels[0]
	}
	inf, ok := analysis.Summary(ds.Influencers, sel.Channel)
	if !ok {
		return View{}, fmt.Errorf("%w: %q", ErrUnknownChannel, sel.Channel)
	}

	rows := analysis.FilterSentiment(ds.Sentiment, sel.Channel)
	dist := analysis.Distribution(rows)

	return View{
		Selection:  sel,
		Channels:   channels,
		Influencer: inf,
		Cards:      Cards(inf),
		Sentiment: SentimentPanel{
			Title:        "Sentiment Distribution for " + sel.Channel,
			Distribution: dist,
			Proportions:  dist.Proportions(),
		},
		Trends: TrendPanel{
			Title:  "Engagement Trends for " + sel.Channel,
			Videos: analysis.GroupByVideo(rows),
		},
		Ranking: RankingPanel{
			Title:  fmt.Sprintf("Top %d Influencers by %s", sel.TopN, sel.Metric),
			Metric: sel.Metric,
			Rows:   analysis.Rank(ds.Influencers, sel.Metric, sel.TopN),
			Stats:  analysis.MetricStats(ds.Influencers, sel.Metric),
		},
		LoadedAt: ds.LoadedAt,
	}, nil
}

// Cards returns the three key-metric displays for inf.
func Cards(inf model.Influencer) []Card {
	return []Card{
		{Label: "Subscriber Count", Value: FormatCount(inf.SubscriberCount)},
		{Label: "Avg Views/Video", Value: FormatCount(inf.AverageViews)},
		{Label: "Engagement Rate", Value: FormatPercent(inf.EngagementRate)},
	}
}

// FormatCount renders n with thousands separators: 1234567 -> "1,234,567".
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent renders a percentage with two decimals: 5.25 -> "5.25%".
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// FormatMetric renders a ranking value. Engagement Rate is shown as a
// percentage, the composite scores with two decimals.
func FormatMetric(m model.Metric, v float64) string {
	if !model.IsFinite(v) {
		return "n/a"
	}
	if m == model.MetricEngagementRate {
		return FormatPercent(v)
	}
	return humanize.CommafWithDigits(v, 2)
}

// CopyText is the plain-text summary placed on the clipboard.
func (v View) CopyText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Overview of %s\n", v.Selection.Channel)
	for _, c := range v.Cards {
		b.WriteString(c.String())
		b.WriteByte('\n')
	}
	d := v.Sentiment.Distribution
	p := v.Sentiment.Proportions
	fmt.Fprintf(&b, "Sentiment: %d positive (%.1f%%), %d neutral (%.1f%%), %d negative (%.1f%%)\n",
		d.Positive, p[0]*100, d.Neutral, p[1]*100, d.Negative, p[2]*100)
	return b.String()
}
