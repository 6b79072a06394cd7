package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/sentiboard/pkg/metrics"
	"github.com/vanderheijden86/sentiboard/pkg/model"
)

// DefaultTopN is the number of rows shown in the ranking panel.
const DefaultTopN = 10

// Ranked is one row of a ranking.
type Ranked struct {
	Rank       int              `json:"rank"`
	Influencer model.Influencer `json:"influencer"`
	Value      model.JSONFloat  `json:"value"`
}

// Rank orders influencers by metric, highest first, and numbers them from 1.
// Ties keep their input order and NaN values sort last. limit <= 0 keeps all
// rows.
func Rank(influencers []model.Influencer, metric model.Metric, limit int) []Ranked {
	defer metrics.Timer(metrics.Rank)()

	rows := make([]Ranked, len(influencers))
	for i, inf := range influencers {
		rows[i] = Ranked{Influencer: inf, Value: model.JSONFloat(metric.Value(inf))}
	}
	sort.SliceStable(rows, func(a, b int) bool {
		va, vb := float64(rows[a].Value), float64(rows[b].Value)
		if math.IsNaN(vb) {
			return !math.IsNaN(va)
		}
		if math.IsNaN(va) {
			return false
		}
		return va > vb
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// Stats summarizes one metric across all influencers.
type Stats struct {
	Metric model.Metric `json:"metric"`
	Count  int          `json:"count"`
	Mean   float64      `json:"mean"`
	StdDev float64      `json:"std_dev"`
	Min    float64      `json:"min"`
	Max    float64      `json:"max"`
}

// MetricStats computes Stats over the finite values of metric. StdDev is the
// sample standard deviation and is zero for fewer than two values.
func MetricStats(influencers []model.Influencer, metric model.Metric) Stats {
	s := Stats{Metric: metric}
	vals := make([]float64, 0, len(influencers))
	for _, inf := range influencers {
		if v := metric.Value(inf); model.IsFinite(v) {
			vals = append(vals, v)
		}
	}
	s.Count = len(vals)
	if s.Count == 0 {
		return s
	}
	s.Min, s.Max = vals[0], vals[0]
	for _, v := range vals[1:] {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	if s.Count == 1 {
		s.Mean = vals[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(vals, nil)
	return s
}
