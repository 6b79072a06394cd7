package export

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanderheijden86/sentiboard/pkg/analysis"
	"github.com/vanderheijden86/sentiboard/pkg/dashboard"
	"github.com/vanderheijden86/sentiboard/pkg/model"
	"github.com/vanderheijden86/sentiboard/pkg/testutil"

	_ "modernc.org/sqlite"
)

func sampleView(t *testing.T, channel string, m model.Metric) dashboard.View {
	t.Helper()
	v, err := dashboard.Build(testutil.Sample(), dashboard.Selection{Channel: channel, Metric: m})
	require.NoError(t, err)
	return v
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"png", FormatPNG, false},
		{".SVG", FormatSVG, false},
		{" svg ", FormatSVG, false},
		{"gif", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Equal(t, FormatSVG, FormatFromPath("out/chart.svg"))
	assert.Equal(t, FormatPNG, FormatFromPath("out/chart"))
	assert.Equal(t, ".svg", FormatSVG.Ext())
}

func TestRenderSentimentPie_SVG(t *testing.T) {
	v := sampleView(t, "ChannelA", model.MetricEngagementRate)
	var buf bytes.Buffer
	require.NoError(t, RenderSentimentPie(&buf, v.Sentiment, FormatSVG, DefaultChartSize))
	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "Positive")
}

func TestRenderSentimentPie_EmptyChannel(t *testing.T) {
	v := sampleView(t, "ChannelC", model.MetricEngagementRate)
	var buf bytes.Buffer
	err := RenderSentimentPie(&buf, v.Sentiment, FormatSVG, DefaultChartSize)
	assert.True(t, errors.Is(err, ErrEmptyChart))
	err = RenderTrendBars(&buf, v.Trends, FormatSVG, DefaultChartSize)
	assert.True(t, errors.Is(err, ErrEmptyChart))
}

func TestRenderTrendAndRankingPNG(t *testing.T) {
	v := sampleView(t, "ChannelA", model.MetricTotalScore)

	var trend bytes.Buffer
	require.NoError(t, RenderTrendBars(&trend, v.Trends, FormatPNG, DefaultChartSize))
	assert.True(t, bytes.HasPrefix(trend.Bytes(), []byte("\x89PNG")))

	var rank bytes.Buffer
	require.NoError(t, RenderRankingBars(&rank, v.Ranking, FormatPNG, DefaultChartSize))
	assert.True(t, bytes.HasPrefix(rank.Bytes(), []byte("\x89PNG")))
}

func TestRenderTrendBars_ManyVideos(t *testing.T) {
	for _, n := range []int{60, 120} {
		panel := dashboard.TrendPanel{Title: "Busy channel"}
		for i := 0; i < n; i++ {
			panel.Videos = append(panel.Videos, analysis.VideoSentiment{
				VideoTitle:      fmt.Sprintf("Video %03d unboxing and review", i),
				SentimentCounts: model.SentimentCounts{Positive: int64(i%7 + 1), Negative: int64(i % 3)},
				Rows:            1,
			})
		}

		var svg bytes.Buffer
		require.NoError(t, RenderTrendBars(&svg, panel, FormatSVG, DefaultChartSize), "n=%d", n)
		assert.Contains(t, svg.String(), fmt.Sprintf(`viewBox="0 0 %d `, 80+n*2*minBarWidth))

		var png bytes.Buffer
		require.NoError(t, RenderTrendBars(&png, panel, FormatPNG, DefaultChartSize), "n=%d", n)
		assert.True(t, bytes.HasPrefix(png.Bytes(), []byte("\x89PNG")))
	}
}

func TestRenderRankingBars_ManyRows(t *testing.T) {
	v := sampleView(t, "ChannelA", model.MetricTotalScore)
	rows := v.Ranking.Rows
	for len(v.Ranking.Rows) < 80 {
		v.Ranking.Rows = append(v.Ranking.Rows, rows...)
	}

	var buf bytes.Buffer
	require.NoError(t, RenderRankingBars(&buf, v.Ranking, FormatSVG, DefaultChartSize))
	assert.Contains(t, buf.String(), fmt.Sprintf(`viewBox="0 0 %d `, 120+len(v.Ranking.Rows)*2*minBarWidth))
}

func TestBarLayout(t *testing.T) {
	w, bar := barLayout(1024, 3, 80)
	assert.Equal(t, 1024, w)
	assert.Equal(t, 157, bar)

	w, bar = barLayout(1024, 50, 80)
	assert.Equal(t, 80+50*2*minBarWidth, w)
	assert.Equal(t, minBarWidth, bar)
}

func TestSaveSnapshot(t *testing.T) {
	dir := t.TempDir()
	v := sampleView(t, "ChannelA", model.MetricEngagementRate)

	svgPath := filepath.Join(dir, "snap.svg")
	require.NoError(t, SaveSnapshot(svgPath, v))
	data, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, "Overview of ChannelA")
	assert.Contains(t, s, "5.25%")
	assert.Contains(t, s, "Top 10 Influencers by Engagement Rate")

	pngPath := filepath.Join(dir, "nested", "snap.png")
	require.NoError(t, SaveSnapshot(pngPath, v))
	data, err = os.ReadFile(pngPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestSaveSnapshot_NoSentiment(t *testing.T) {
	v := sampleView(t, "ChannelC", model.MetricEngagementRate)
	path := filepath.Join(t.TempDir(), "snap.svg")
	require.NoError(t, SaveSnapshot(path, v))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "No sentiment data")
}

func TestGenerateMarkdown(t *testing.T) {
	v := sampleView(t, "ChannelA", model.MetricTotalScore)
	md := GenerateMarkdown(v, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	assert.Contains(t, md, "# "+dashboard.Title)
	assert.Contains(t, md, "## Overview of ChannelA")
	assert.Contains(t, md, "| Engagement Rate | 5.25% |")
	assert.Contains(t, md, "| Subscriber Count | 1,234,567 |")
	assert.Contains(t, md, "| Intro | 30 | 20 | 10 |")
	assert.Contains(t, md, "| Rank | Channel Name | Subscriber Count | Total Score |")
	assert.Contains(t, md, "| 1 | ChannelB |")
	assert.Less(t, strings.Index(md, "| Intro |"), strings.Index(md, "| Review |"))
}

func TestRenderTerminal(t *testing.T) {
	out, err := RenderTerminal("# Hello\n\nworld", 40)
	require.NoError(t, err)
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "world")
}

func TestWriteRankingTable(t *testing.T) {
	v := sampleView(t, "ChannelA", model.MetricEngagementRate)
	var buf bytes.Buffer
	WriteRankingTable(&buf, v.Ranking)
	out := buf.String()

	assert.Contains(t, out, "Channel Name")
	assert.Contains(t, out, "Engagement Rate")
	// ChannelA and ChannelC tie at 5.25; input order is kept.
	a := strings.Index(out, "ChannelA")
	c := strings.Index(out, "ChannelC")
	b := strings.Index(out, "ChannelB")
	assert.True(t, a < c && c < b, "unexpected order:\n%s", out)
}

func TestWriteSummary(t *testing.T) {
	v := sampleView(t, "ChannelA", model.MetricEngagementRate)
	var buf bytes.Buffer
	WriteSummary(&buf, v)
	out := buf.String()
	assert.Contains(t, out, "Engagement Rate: 5.25%")
	assert.Contains(t, out, "Avg Views/Video: 45,000")
	assert.Contains(t, out, "Positive")
}

func TestWriteJSON(t *testing.T) {
	v := sampleView(t, "ChannelA", model.MetricSentimentWeightedEngagement)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, v))

	var decoded struct {
		Selection struct {
			Channel string `json:"channel"`
			Metric  string `json:"metric"`
		} `json:"selection"`
		Cards   []dashboard.Card `json:"cards"`
		Ranking struct {
			Rows []struct {
				Rank  int      `json:"rank"`
				Value *float64 `json:"value"`
			} `json:"rows"`
		} `json:"ranking"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "ChannelA", decoded.Selection.Channel)
	assert.Equal(t, "Sentiment Weighted Engagement", decoded.Selection.Metric)
	require.Len(t, decoded.Cards, 3)
	require.Len(t, decoded.Ranking.Rows, 3)
	assert.Equal(t, 1, decoded.Ranking.Rows[0].Rank)
	require.NotNil(t, decoded.Ranking.Rows[0].Value)
	assert.InDelta(t, 4.6, *decoded.Ranking.Rows[0].Value, 1e-9)
}

func TestSQLiteExporter(t *testing.T) {
	ds := testutil.Sample()
	path := filepath.Join(t.TempDir(), DefaultSQLiteFile)
	exp := NewSQLiteExporter(ds)
	exp.Now = func() time.Time { return time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC) }
	require.NoError(t, exp.Export(path))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM influencers`).Scan(&n))
	assert.Equal(t, 3, n)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sentiment WHERE channel_name = 'ChannelA'`).Scan(&n))
	assert.Equal(t, 3, n)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM rankings`).Scan(&n))
	assert.Equal(t, 9, n)

	var top string
	require.NoError(t, db.QueryRow(
		`SELECT channel_name FROM rankings WHERE metric = 'Total Score' AND rank = 1`).Scan(&top))
	assert.Equal(t, "ChannelB", top)

	var exported string
	require.NoError(t, db.QueryRow(`SELECT value FROM export_meta WHERE key = 'exported_at'`).Scan(&exported))
	assert.Equal(t, "2025-02-03T04:05:06Z", exported)

	// Re-exporting replaces the file instead of appending.
	require.NoError(t, exp.Export(path))
	db2, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db2.Close()
	require.NoError(t, db2.QueryRow(`SELECT COUNT(*) FROM influencers`).Scan(&n))
	assert.Equal(t, 3, n)
}

func TestExportView(t *testing.T) {
	ds := testutil.Sample()
	v := sampleView(t, "ChannelA", model.MetricTotalScore)
	dir := t.TempDir()

	opts := DefaultOptions(dir)
	opts.Format = FormatSVG
	opts.JSON = true
	opts.Markdown = true
	opts.SQLite = true
	res, err := ExportView(ds, v, opts)
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)

	for _, name := range []string{
		"channela-sentiment.svg",
		"channela-trends.svg",
		"ranking-total-score.svg",
		"channela-snapshot.svg",
		"channela.json",
		"channela.md",
		DefaultSQLiteFile,
	} {
		assert.FileExists(t, filepath.Join(dir, name))
		assert.Contains(t, res.Files, filepath.Join(dir, name))
	}
}

func TestExportView_SkipsEmptyCharts(t *testing.T) {
	v := sampleView(t, "ChannelC", model.MetricEngagementRate)
	dir := t.TempDir()
	res, err := ExportView(testutil.Sample(), v, DefaultOptions(dir))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"channelc-sentiment.png", "channelc-trends.png"}, res.Skipped)
	assert.NoFileExists(t, filepath.Join(dir, "channelc-sentiment.png"))
	assert.FileExists(t, filepath.Join(dir, "ranking-engagement-rate.png"))
}

func TestExportView_NoDir(t *testing.T) {
	v := sampleView(t, "ChannelA", model.MetricEngagementRate)
	_, err := ExportView(testutil.Sample(), v, Options{})
	assert.Error(t, err)
}

func TestWizardConfig(t *testing.T) {
	cfg := WizardConfig{Channel: "ChannelB", Metric: "total-score", Format: "svg", Dir: "out", SQLite: true}
	sel, err := cfg.Selection(5)
	require.NoError(t, err)
	assert.Equal(t, dashboard.Selection{Channel: "ChannelB", Metric: model.MetricTotalScore, TopN: 5}, sel)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, opts.Format)
	assert.True(t, opts.SQLite)

	_, err = WizardConfig{Format: "png"}.Options()
	assert.Error(t, err)
	_, err = WizardConfig{Metric: "likes"}.Selection(5)
	assert.ErrorIs(t, err, model.ErrUnknownMetric)
}

func TestWizardConfigPersistence(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	saved, err := LoadWizardConfig()
	require.NoError(t, err)
	assert.Nil(t, saved)

	want := WizardConfig{Channel: "ChannelB", Metric: "total-score", Format: "svg", Dir: "out"}
	require.NoError(t, SaveWizardConfig(want))
	got, err := LoadWizardConfig()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	w := NewWizard([]string{"ChannelA", "ChannelB"}, WizardConfig{})
	assert.Equal(t, want, w.config)

	// A saved channel that disappeared falls back to the first one.
	w = NewWizard([]string{"ChannelZ"}, WizardConfig{})
	assert.Equal(t, "ChannelZ", w.config.Channel)
}

func TestSlugAndTruncate(t *testing.T) {
	assert.Equal(t, "channela", slug("ChannelA"))
	assert.Equal(t, "ab", truncate("ab", 5))
	assert.LessOrEqual(t, len([]rune(truncate("a very long channel name", 10))), 10)
}
