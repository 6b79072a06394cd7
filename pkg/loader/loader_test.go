package loader

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vanderheijden86/sentiboard/pkg/model"
)

const influencersCSV = `Channel Name,Subscriber Count,Average Views per Video,Engagement Rate,Sentiment Weighted Engagement,Total Score
ChannelA,125000,40000,5.25,3.1,80.5
ChannelB,98000.0,12000,7.5,4.2,91
`

const sentimentCSV = `Channel Name,Video Title,Positive,Neutral,Negative
ChannelA,Intro,10,5,1
ChannelA,Unboxing,7,2,3
ChannelB,Review,4,4,0
`

func writeFixture(t *testing.T, inf, sent string) Paths {
	t.Helper()
	dir := t.TempDir()
	paths := DefaultPaths(dir)
	if err := os.WriteFile(paths.Influencers, []byte(inf), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths.Sentiment, []byte(sent), 0o644); err != nil {
		t.Fatal(err)
	}
	return paths
}

func TestReadInfluencers(t *testing.T) {
	got, err := ReadInfluencers(strings.NewReader(influencersCSV), "test")
	if err != nil {
		t.Fatalf("ReadInfluencers: %v", err)
	}
	want := []model.Influencer{
		{ChannelName: "ChannelA", SubscriberCount: 125000, AverageViews: 40000, EngagementRate: 5.25, SentimentWeightedEngagement: 3.1, TotalScore: 80.5},
		{ChannelName: "ChannelB", SubscriberCount: 98000, AverageViews: 12000, EngagementRate: 7.5, SentimentWeightedEngagement: 4.2, TotalScore: 91},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("influencers mismatch (-want +got):\n%s", diff)
	}
}

func TestReadInfluencers_ColumnOrderAndExtras(t *testing.T) {
	in := `Total Score,Extra,Channel Name,Engagement Rate,Subscriber Count,Sentiment Weighted Engagement,Average Views per Video
12.5,x,Solo,1.25,10,0.5,3
`
	got, err := ReadInfluencers(strings.NewReader(in), "test")
	if err != nil {
		t.Fatalf("ReadInfluencers: %v", err)
	}
	if len(got) != 1 || got[0].ChannelName != "Solo" || got[0].TotalScore != 12.5 || got[0].AverageViews != 3 {
		t.Errorf("unexpected row: %+v", got)
	}
}

func TestReadInfluencers_MissingColumn(t *testing.T) {
	in := "Channel Name,Subscriber Count\nA,1\n"
	_, err := ReadInfluencers(strings.NewReader(in), "influencers_data.csv")
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	if !strings.Contains(err.Error(), `"Average Views per Video"`) {
		t.Errorf("error should name the column: %v", err)
	}
}

func TestReadInfluencers_BadNumber(t *testing.T) {
	in := strings.Replace(influencersCSV, "40000", "lots", 1)
	_, err := ReadInfluencers(strings.NewReader(in), "influencers_data.csv")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Row != 1 || pe.Column != ColAverageViews || pe.Value != "lots" {
		t.Errorf("unexpected parse error fields: %+v", pe)
	}
}

func TestReadInfluencers_FractionalCount(t *testing.T) {
	in := strings.Replace(influencersCSV, "125000", "125000.5", 1)
	if _, err := ReadInfluencers(strings.NewReader(in), "test"); err == nil {
		t.Fatal("expected error for fractional subscriber count")
	}
}

func TestReadInfluencers_CountOutOfRange(t *testing.T) {
	for _, v := range []string{"1e19", "9223372036854775808", "-1e300"} {
		in := strings.Replace(influencersCSV, "125000", v, 1)
		_, err := ReadInfluencers(strings.NewReader(in), "test")
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("%s: expected ParseError, got %v", v, err)
		}
		if pe.Column != ColSubscribers || pe.Value != v || !strings.Contains(pe.Error(), "out of range") {
			t.Errorf("%s: unexpected parse error: %v", v, pe)
		}
	}

	in := strings.Replace(influencersCSV, "125000", "9223372036854775807", 1)
	got, err := ReadInfluencers(strings.NewReader(in), "test")
	if err != nil {
		t.Fatalf("max int64: %v", err)
	}
	if got[0].SubscriberCount != math.MaxInt64 {
		t.Errorf("subscriber count = %d, want %d", got[0].SubscriberCount, int64(math.MaxInt64))
	}
}

func TestReadInfluencers_EmptyMetricIsNaN(t *testing.T) {
	in := strings.Replace(influencersCSV, ",80.5", ",", 1)
	got, err := ReadInfluencers(strings.NewReader(in), "test")
	if err != nil {
		t.Fatalf("ReadInfluencers: %v", err)
	}
	if !math.IsNaN(got[0].TotalScore) {
		t.Errorf("expected NaN total score, got %v", got[0].TotalScore)
	}
}

func TestReadSentiment(t *testing.T) {
	got, err := ReadSentiment(strings.NewReader(sentimentCSV), "test")
	if err != nil {
		t.Fatalf("ReadSentiment: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	want := model.SentimentRecord{
		ChannelName:     "ChannelA",
		VideoTitle:      "Unboxing",
		SentimentCounts: model.SentimentCounts{Positive: 7, Neutral: 2, Negative: 3},
	}
	if diff := cmp.Diff(want, got[1]); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
}

func TestReadSentiment_NegativeCount(t *testing.T) {
	in := strings.Replace(sentimentCSV, "Review,4,4,0", "Review,4,-4,0", 1)
	_, err := ReadSentiment(strings.NewReader(in), "test")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Column != ColNeutral || pe.Row != 3 {
		t.Errorf("unexpected parse error fields: %+v", pe)
	}
}

func TestReadSentiment_HugeCount(t *testing.T) {
	in := strings.Replace(sentimentCSV, "Review,4,4,0", "Review,1e19,4,0", 1)
	_, err := ReadSentiment(strings.NewReader(in), "test")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Column != ColPositive || !strings.Contains(pe.Error(), "out of range") {
		t.Errorf("unexpected parse error: %v", pe)
	}
}

func TestLoadDataset(t *testing.T) {
	paths := writeFixture(t, influencersCSV, sentimentCSV)
	ds, err := LoadDataset(context.Background(), paths)
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if len(ds.Influencers) != 2 || len(ds.Sentiment) != 3 {
		t.Errorf("unexpected sizes: %d influencers, %d sentiment", len(ds.Influencers), len(ds.Sentiment))
	}
	if ds.LoadedAt.IsZero() {
		t.Error("LoadedAt not set")
	}
	if ds.Paths != paths {
		t.Errorf("paths = %+v, want %+v", ds.Paths, paths)
	}
}

func TestLoadDataset_MissingFile(t *testing.T) {
	paths := writeFixture(t, influencersCSV, sentimentCSV)
	paths.Sentiment = filepath.Join(t.TempDir(), "nope.csv")
	_, err := LoadDataset(context.Background(), paths)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestWriteThenRead(t *testing.T) {
	rows := []model.Influencer{
		{ChannelName: "Alpha, Inc", SubscriberCount: 5, AverageViews: 6, EngagementRate: 1.5, SentimentWeightedEngagement: 0.25, TotalScore: 3},
	}
	var b strings.Builder
	if err := WriteInfluencers(&b, rows); err != nil {
		t.Fatalf("WriteInfluencers: %v", err)
	}
	got, err := ReadInfluencers(strings.NewReader(b.String()), "roundtrip")
	if err != nil {
		t.Fatalf("ReadInfluencers: %v", err)
	}
	if diff := cmp.Diff(rows, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestHeaderOnlyFiles(t *testing.T) {
	header := strings.SplitN(influencersCSV, "\n", 2)[0] + "\n"
	got, err := ReadInfluencers(strings.NewReader(header), "empty")
	if err != nil {
		t.Fatalf("ReadInfluencers: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no rows, got %d", len(got))
	}

	_, err = ReadSentiment(strings.NewReader("Channel Name,Video Title,Positive\n"), "empty")
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn for header-only file, got %v", err)
	}

	// Header names must match exactly, with or without data rows.
	padded := strings.Replace(header, "Channel Name", " Channel Name", 1)
	if _, err := ReadInfluencers(strings.NewReader(padded), "padded"); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn for padded header-only file, got %v", err)
	}
	padded = strings.Replace(influencersCSV, "Channel Name", " Channel Name", 1)
	if _, err := ReadInfluencers(strings.NewReader(padded), "padded"); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn for padded header, got %v", err)
	}

	var b strings.Builder
	if err := WriteSentiment(&b, nil); err != nil {
		t.Fatalf("WriteSentiment: %v", err)
	}
	recs, err := ReadSentiment(strings.NewReader(b.String()), "roundtrip")
	if err != nil || len(recs) != 0 {
		t.Errorf("round trip of empty table: %v, %d rows", err, len(recs))
	}
}
