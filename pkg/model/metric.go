package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMetric is returned by ParseMetric for unrecognized input.
var ErrUnknownMetric = errors.New("unknown ranking metric")

// Metric selects the influencer column used for ranking.
type Metric int

const (
	MetricEngagementRate Metric = iota
	MetricSentimentWeightedEngagement
	MetricTotalScore
)

// Metrics lists the ranking metrics in selector order.
var Metrics = []Metric{
	MetricEngagementRate,
	MetricSentimentWeightedEngagement,
	MetricTotalScore,
}

// String returns the display name, which is also the CSV column name.
func (m Metric) String() string {
	switch m {
	case MetricEngagementRate:
		return "Engagement Rate"
	case MetricSentimentWeightedEngagement:
		return "Sentiment Weighted Engagement"
	case MetricTotalScore:
		return "Total Score"
	default:
		return fmt.Sprintf("Metric(%d)", int(m))
	}
}

// Slug returns the kebab-case form used by flags and config files.
func (m Metric) Slug() string {
	return strings.ReplaceAll(strings.ToLower(m.String()), " ", "-")
}

// Valid reports whether m is one of the known metrics.
func (m Metric) Valid() bool {
	return m >= MetricEngagementRate && m <= MetricTotalScore
}

// Next returns the metric after m in selector order, wrapping around.
func (m Metric) Next() Metric {
	return Metrics[(int(m)+1)%len(Metrics)]
}

// Prev returns the metric before m in selector order, wrapping around.
func (m Metric) Prev() Metric {
	return Metrics[(int(m)+len(Metrics)-1)%len(Metrics)]
}

// Value extracts the metric's column from an influencer row.
func (m Metric) Value(i Influencer) float64 {
	switch m {
	case MetricEngagementRate:
		return i.EngagementRate
	case MetricSentimentWeightedEngagement:
		return i.SentimentWeightedEngagement
	case MetricTotalScore:
		return i.TotalScore
	default:
		return 0
	}
}

// ParseMetric accepts a display name ("Total Score"), a slug ("total-score")
// or a snake_case name, case-insensitively.
func ParseMetric(s string) (Metric, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	for _, m := range Metrics {
		if m.Slug() == norm {
			return m, nil
		}
	}
	return MetricEngagementRate, fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Metric) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMetric, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Metric) UnmarshalText(text []byte) error {
	parsed, err := ParseMetric(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
