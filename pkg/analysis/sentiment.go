package analysis

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/vanderheijden86/sentiboard/pkg/model"
)

// FilterSentiment returns the records for channel in input order.
func FilterSentiment(records []model.SentimentRecord, channel string) []model.SentimentRecord {
	var out []model.SentimentRecord
	for _, r := range records {
		if r.ChannelName == channel {
			out = append(out, r)
		}
	}
	return out
}

// SentimentDistribution is the summed comment counts for a set of records.
type SentimentDistribution struct {
	model.SentimentCounts
	Videos int `json:"videos"`
}

// Distribution sums Positive, Neutral and Negative over records.
func Distribution(records []model.SentimentRecord) SentimentDistribution {
	var d SentimentDistribution
	for _, r := range records {
		d.SentimentCounts = d.SentimentCounts.Add(r.SentimentCounts)
	}
	d.Videos = len(records)
	return d
}

// Empty reports whether there is nothing to chart.
func (d SentimentDistribution) Empty() bool {
	return d.Total() == 0
}

// Proportions returns each class's share of the total in Positive, Neutral,
// Negative order. The shares sum to 1 when the total is positive; all are
// zero when it is not.
func (d SentimentDistribution) Proportions() [3]float64 {
	var out [3]float64
	vals := d.Values()
	counts := []float64{float64(vals[0]), float64(vals[1]), float64(vals[2])}
	total := floats.Sum(counts)
	if total <= 0 {
		return out
	}
	floats.Scale(1/total, counts)
	copy(out[:], counts)
	return out
}

// VideoSentiment is the summed counts for one video title.
type VideoSentiment struct {
	VideoTitle string `json:"video_title"`
	model.SentimentCounts
	Rows int `json:"rows"`
}

// GroupByVideo sums counts per video title. Groups are ordered by title.
func GroupByVideo(records []model.SentimentRecord) []VideoSentiment {
	idx := make(map[string]int)
	var out []VideoSentiment
	for _, r := range records {
		i, ok := idx[r.VideoTitle]
		if !ok {
			i = len(out)
			idx[r.VideoTitle] = i
			out = append(out, VideoSentiment{VideoTitle: r.VideoTitle})
		}
		out[i].SentimentCounts = out[i].SentimentCounts.Add(r.SentimentCounts)
		out[i].Rows++
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a].VideoTitle < out[b].VideoTitle
	})
	return out
}
