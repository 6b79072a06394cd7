// Package model defines the two tables the dashboard reads: per-influencer
// summary metrics and per-video sentiment counts.
package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Influencer is one row of the influencer summary table.
// ChannelName is the unique identifier.
type Influencer struct {
	ChannelName                 string  `json:"channel_name"`
	SubscriberCount             int64   `json:"subscriber_count"`
	AverageViews                int64   `json:"average_views_per_video"`
	EngagementRate              float64 `json:"engagement_rate"` // percent, 5.25 means 5.25%
	SentimentWeightedEngagement float64 `json:"sentiment_weighted_engagement"`
	TotalScore                  float64 `json:"total_score"`
}

// Validate checks the fields that the dashboard relies on.
func (i Influencer) Validate() error {
	if strings.TrimSpace(i.ChannelName) == "" {
		return errors.New("channel name cannot be empty")
	}
	if i.SubscriberCount < 0 {
		return fmt.Errorf("subscriber count cannot be negative: %d", i.SubscriberCount)
	}
	if i.AverageViews < 0 {
		return fmt.Errorf("average views cannot be negative: %d", i.AverageViews)
	}
	return nil
}

// SentimentRecord is one row of the per-video sentiment table. Many records
// share a ChannelName, which refers to an Influencer. The reference is not
// checked.
type SentimentRecord struct {
	ChannelName string `json:"channel_name"`
	VideoTitle  string `json:"video_title"`
	SentimentCounts
}

// Validate checks that the record has a channel and non-negative counts.
func (r SentimentRecord) Validate() error {
	if strings.TrimSpace(r.ChannelName) == "" {
		return errors.New("channel name cannot be empty")
	}
	return r.SentimentCounts.Validate()
}

// SentimentCounts holds comment counts per sentiment class.
type SentimentCounts struct {
	Positive int64 `json:"positive"`
	Neutral  int64 `json:"neutral"`
	Negative int64 `json:"negative"`
}

// Total returns Positive+Neutral+Negative.
func (c SentimentCounts) Total() int64 {
	return c.Positive + c.Neutral + c.Negative
}

// Add returns the element-wise sum of c and o.
func (c SentimentCounts) Add(o SentimentCounts) SentimentCounts {
	return SentimentCounts{
		Positive: c.Positive + o.Positive,
		Neutral:  c.Neutral + o.Neutral,
		Negative: c.Negative + o.Negative,
	}
}

// Values returns the counts in Positive, Neutral, Negative order.
func (c SentimentCounts) Values() [3]int64 {
	return [3]int64{c.Positive, c.Neutral, c.Negative}
}

// Validate rejects negative counts.
func (c SentimentCounts) Validate() error {
	for i, v := range c.Values() {
		if v < 0 {
			return fmt.Errorf("%s count cannot be negative: %d", SentimentLabels[i], v)
		}
	}
	return nil
}

// SentimentLabels names the sentiment classes in display order.
var SentimentLabels = [3]string{"Positive", "Neutral", "Negative"}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
