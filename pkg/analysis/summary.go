// Package analysis holds the dashboard's data transformations: channel
// lookup, sentiment filtering and totals, per-video grouping, and ranking.
// All functions are pure and leave their inputs unmodified.
package analysis

import "github.com/vanderheijden86/sentiboard/pkg/model"

// Channels returns the distinct channel names in first-appearance order.
func Channels(influencers []model.Influencer) []string {
	seen := make(map[string]struct{}, len(influencers))
	out := make([]string, 0, len(influencers))
	for _, inf := range influencers {
		if _, ok := seen[inf.ChannelName]; ok {
			continue
		}
		seen[inf.ChannelName] = struct{}{}
		out = append(out, inf.ChannelName)
	}
	return out
}

// Summary returns the first influencer row for channel.
func Summary(influencers []model.Influencer, channel string) (model.Influencer, bool) {
	for _, inf := range influencers {
		if inf.ChannelName == channel {
			return inf, true
		}
	}
	return model.Influencer{}, false
}
