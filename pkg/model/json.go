package model

import (
	"github.com/goccy/go-json"
)

// finite returns nil for NaN and infinities so they encode as JSON null.
func finite(v float64) *float64 {
	if !IsFinite(v) {
		return nil
	}
	return &v
}

// JSONFloat is a float64 that encodes non-finite values as null.
type JSONFloat float64

// MarshalJSON implements json.Marshaler.
func (f JSONFloat) MarshalJSON() ([]byte, error) {
	return json.Marshal(finite(float64(f)))
}

type influencerJSON struct {
	ChannelName                 string   `json:"channel_name"`
	SubscriberCount             int64    `json:"subscriber_count"`
	AverageViews                int64    `json:"average_views_per_video"`
	EngagementRate              *float64 `json:"engagement_rate"`
	SentimentWeightedEngagement *float64 `json:"sentiment_weighted_engagement"`
	TotalScore                  *float64 `json:"total_score"`
}

// MarshalJSON writes missing (NaN) metrics as null.
func (i Influencer) MarshalJSON() ([]byte, error) {
	return json.Marshal(influencerJSON{
		ChannelName:                 i.ChannelName,
		SubscriberCount:             i.SubscriberCount,
		AverageViews:                i.AverageViews,
		EngagementRate:              finite(i.EngagementRate),
		SentimentWeightedEngagement: finite(i.SentimentWeightedEngagement),
		TotalScore:                  finite(i.TotalScore),
	})
}
