package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanderheijden86/sentiboard/pkg/model"
)

func sampleInfluencers() []model.Influencer {
	return []model.Influencer{
		{ChannelName: "ChannelA", SubscriberCount: 1200, AverageViews: 300, EngagementRate: 5.25, SentimentWeightedEngagement: 2, TotalScore: 70},
		{ChannelName: "ChannelB", SubscriberCount: 5000, AverageViews: 900, EngagementRate: 7.1, SentimentWeightedEngagement: 2, TotalScore: 65},
		{ChannelName: "ChannelC", SubscriberCount: 300, AverageViews: 40, EngagementRate: 1.0, SentimentWeightedEngagement: 9, TotalScore: 70},
		{ChannelName: "ChannelA", SubscriberCount: 1, AverageViews: 1, EngagementRate: 0, SentimentWeightedEngagement: 0, TotalScore: 0},
	}
}

func sampleSentiment() []model.SentimentRecord {
	return []model.SentimentRecord{
		{ChannelName: "ChannelA", VideoTitle: "Zeta", SentimentCounts: model.SentimentCounts{Positive: 5, Neutral: 3, Negative: 2}},
		{ChannelName: "ChannelB", VideoTitle: "Other", SentimentCounts: model.SentimentCounts{Positive: 1}},
		{ChannelName: "ChannelA", VideoTitle: "Alpha", SentimentCounts: model.SentimentCounts{Positive: 1, Neutral: 1, Negative: 1}},
		{ChannelName: "ChannelA", VideoTitle: "Zeta", SentimentCounts: model.SentimentCounts{Positive: 2, Neutral: 0, Negative: 4}},
	}
}

func TestChannels_FirstAppearanceOrder(t *testing.T) {
	assert.Equal(t, []string{"ChannelA", "ChannelB", "ChannelC"}, Channels(sampleInfluencers()))
	assert.Empty(t, Channels(nil))
}

func TestSummary_FirstMatchingRow(t *testing.T) {
	inf, ok := Summary(sampleInfluencers(), "ChannelA")
	require.True(t, ok)
	assert.Equal(t, int64(1200), inf.SubscriberCount)
	assert.Equal(t, 5.25, inf.EngagementRate)

	_, ok = Summary(sampleInfluencers(), "Missing")
	assert.False(t, ok)
}

func TestFilterSentiment(t *testing.T) {
	got := FilterSentiment(sampleSentiment(), "ChannelA")
	require.Len(t, got, 3)
	assert.Equal(t, "Zeta", got[0].VideoTitle)
	assert.Equal(t, "Alpha", got[1].VideoTitle)
	assert.Empty(t, FilterSentiment(sampleSentiment(), "Nobody"))
}

func TestDistribution(t *testing.T) {
	d := Distribution(FilterSentiment(sampleSentiment(), "ChannelA"))
	assert.Equal(t, model.SentimentCounts{Positive: 8, Neutral: 4, Negative: 7}, d.SentimentCounts)
	assert.Equal(t, 3, d.Videos)

	p := d.Proportions()
	assert.InDelta(t, 8.0/19, p[0], 1e-12)
	assert.InDelta(t, 1.0, p[0]+p[1]+p[2], 1e-9)
}

func TestDistribution_EmptyChannel(t *testing.T) {
	d := Distribution(nil)
	assert.True(t, d.Empty())
	assert.Equal(t, [3]float64{}, d.Proportions())
}

func TestGroupByVideo(t *testing.T) {
	groups := GroupByVideo(FilterSentiment(sampleSentiment(), "ChannelA"))
	require.Len(t, groups, 2)
	assert.Equal(t, "Alpha", groups[0].VideoTitle)
	assert.Equal(t, "Zeta", groups[1].VideoTitle)
	assert.Equal(t, model.SentimentCounts{Positive: 7, Neutral: 3, Negative: 6}, groups[1].SentimentCounts)
	assert.Equal(t, 2, groups[1].Rows)
}

func TestRank_Engagement(t *testing.T) {
	ranked := Rank(sampleInfluencers(), model.MetricEngagementRate, 10)
	require.Len(t, ranked, 4)
	names := make([]string, len(ranked))
	for i, r := range ranked {
		names[i] = r.Influencer.ChannelName
		assert.Equal(t, i+1, r.Rank)
	}
	assert.Equal(t, []string{"ChannelB", "ChannelA", "ChannelC", "ChannelA"}, names)
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	ranked := Rank(sampleInfluencers(), model.MetricTotalScore, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "ChannelA", ranked[0].Influencer.ChannelName)
	assert.Equal(t, "ChannelC", ranked[1].Influencer.ChannelName)
	assert.Equal(t, 2, ranked[1].Rank)
}

func TestRank_NaNLast(t *testing.T) {
	infs := []model.Influencer{
		{ChannelName: "nan", TotalScore: math.NaN()},
		{ChannelName: "low", TotalScore: -3},
		{ChannelName: "high", TotalScore: 8},
	}
	ranked := Rank(infs, model.MetricTotalScore, 0)
	require.Len(t, ranked, 3)
	assert.Equal(t, "high", ranked[0].Influencer.ChannelName)
	assert.Equal(t, "low", ranked[1].Influencer.ChannelName)
	assert.Equal(t, "nan", ranked[2].Influencer.ChannelName)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	infs := sampleInfluencers()
	_ = Rank(infs, model.MetricEngagementRate, 0)
	assert.Equal(t, sampleInfluencers(), infs)
}

func TestMetricStats(t *testing.T) {
	s := MetricStats(sampleInfluencers(), model.MetricTotalScore)
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 51.25, s.Mean, 1e-9)
	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, 70.0, s.Max)
	assert.Greater(t, s.StdDev, 0.0)

	single := MetricStats(sampleInfluencers()[:1], model.MetricTotalScore)
	assert.Equal(t, 70.0, single.Mean)
	assert.Equal(t, 0.0, single.StdDev)

	assert.Equal(t, 0, MetricStats(nil, model.MetricTotalScore).Count)
}
