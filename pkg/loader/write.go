package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/vanderheijden86/sentiboard/pkg/model"
)

// WriteInfluencers writes rows in the influencers_data.csv layout.
func WriteInfluencers(w io.Writer, rows []model.Influencer) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, InfluencerColumns)
	for _, r := range rows {
		records = append(records, []string{
			r.ChannelName,
			strconv.FormatInt(r.SubscriberCount, 10),
			strconv.FormatInt(r.AverageViews, 10),
			formatFloat(r.EngagementRate),
			formatFloat(r.SentimentWeightedEngagement),
			formatFloat(r.TotalScore),
		})
	}
	return writeRecords(w, records)
}

// WriteSentiment writes rows in the detailed_sentiment_analysis.csv layout.
func WriteSentiment(w io.Writer, rows []model.SentimentRecord) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, SentimentColumns)
	for _, r := range rows {
		records = append(records, []string{
			r.ChannelName,
			r.VideoTitle,
			strconv.FormatInt(r.Positive, 10),
			strconv.FormatInt(r.Neutral, 10),
			strconv.FormatInt(r.Negative, 10),
		})
	}
	return writeRecords(w, records)
}

func writeRecords(w io.Writer, records [][]string) error {
	if len(records) == 1 {
		// gota cannot build a frame without rows.
		cw := csv.NewWriter(w)
		if err := cw.Write(records[0]); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	}
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return fmt.Errorf("build frame: %w", df.Err)
	}
	return df.WriteCSV(w)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
