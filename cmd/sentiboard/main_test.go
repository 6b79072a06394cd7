package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanderheijden86/sentiboard/pkg/dashboard"
	"github.com/vanderheijden86/sentiboard/pkg/export"
	"github.com/vanderheijden86/sentiboard/pkg/loader"
	"github.com/vanderheijden86/sentiboard/pkg/model"
	"github.com/vanderheijden86/sentiboard/pkg/testutil"
)

// run executes the CLI against the sample dataset and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	for _, k := range []string{"SENTIBOARD_INFLUENCERS", "SENTIBOARD_SENTIMENT", "SENTIBOARD_METRIC", "SENTIBOARD_TOP", "SENTIBOARD_EXPORT_DIR"} {
		t.Setenv(k, "")
	}

	paths := testutil.TempDataset(t, testutil.Sample())
	full := append([]string{
		"--influencers", paths.Influencers,
		"--sentiment", paths.Sentiment,
		"--env-file", "",
	}, args...)

	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(full)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "sentiboard "), out)
}

func TestSummaryCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "default channel is the first row",
			args: []string{"summary"},
			want: []string{"Overview of ChannelA", "Subscriber Count: 1,234,567", "Engagement Rate: 5.25%"},
		},
		{
			name: "positional channel",
			args: []string{"summary", "ChannelB"},
			want: []string{"Overview of ChannelB", "Avg Views/Video: 120,500", "Engagement Rate: 3.40%"},
		},
		{
			name: "channel without sentiment rows",
			args: []string{"summary", "ChannelC"},
			want: []string{"Overview of ChannelC", "No sentiment data for this channel."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestSummaryJSON(t *testing.T) {
	out, err := run(t, "summary", "ChannelA", "--json")
	require.NoError(t, err)

	var got struct {
		Channel     string           `json:"channel"`
		Cards       []dashboard.Card `json:"cards"`
		Proportions [3]float64       `json:"proportions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "ChannelA", got.Channel)
	require.Len(t, got.Cards, 3)
	assert.Equal(t, "5.25%", got.Cards[2].Value)
	// 60 positive, 30 neutral, 20 negative across three videos.
	assert.InDelta(t, 1.0, got.Proportions[0]+got.Proportions[1]+got.Proportions[2], 1e-9)
	assert.InDelta(t, 60.0/110.0, got.Proportions[0], 1e-9)
}

func TestSummaryUnknownChannel(t *testing.T) {
	_, err := run(t, "summary", "Nobody")
	require.Error(t, err)
	assert.ErrorIs(t, err, dashboard.ErrUnknownChannel)
}

func TestRankJSON(t *testing.T) {
	out, err := run(t, "rank", "--metric", "total-score", "--json")
	require.NoError(t, err)

	var panel struct {
		Rows []struct {
			Rank       int `json:"rank"`
			Influencer struct {
				ChannelName string `json:"channel_name"`
			} `json:"influencer"`
			Value float64 `json:"value"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &panel))
	require.Len(t, panel.Rows, 3)

	var names []string
	for i, r := range panel.Rows {
		assert.Equal(t, i+1, r.Rank)
		names = append(names, r.Influencer.ChannelName)
	}
	assert.Equal(t, []string{"ChannelB", "ChannelA", "ChannelC"}, names)
	assert.InDelta(t, 88.0, panel.Rows[0].Value, 1e-9)
}

func TestRankTopAndTies(t *testing.T) {
	out, err := run(t, "rank", "--metric", "Engagement Rate", "--top", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Top 2 Influencers by Engagement Rate")
	// ChannelA and ChannelC tie at 5.25; input order is kept.
	a, c := strings.Index(out, "ChannelA"), strings.Index(out, "ChannelC")
	require.NotEqual(t, -1, a)
	require.NotEqual(t, -1, c)
	assert.Less(t, a, c)
	assert.NotContains(t, out, "ChannelB")
}

func TestRankMarkdown(t *testing.T) {
	out, err := run(t, "rank", "--metric", "sentiment-weighted-engagement", "--markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "| Rank | Channel Name | Subscriber Count | Sentiment Weighted Engagement |")
	assert.Contains(t, out, "| 1 | ChannelC | 15,200 | 4.6 |")
}

func TestRankErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown metric", []string{"rank", "--metric", "likes"}},
		{"zero top", []string{"rank", "--top", "0"}},
		{"json and markdown", []string{"rank", "--json", "--markdown"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestReportRaw(t *testing.T) {
	out, err := run(t, "report", "ChannelB", "--metric", "total-score", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "# "+dashboard.Title)
	assert.Contains(t, out, "## Overview of ChannelB")
	assert.Contains(t, out, "| Unboxing | 5 | 5 | 0 |")
	assert.Contains(t, out, "Top 10 Influencers by Total Score")
}

func TestReportRendered(t *testing.T) {
	out, err := run(t, "report", "ChannelA")
	require.NoError(t, err)
	assert.Contains(t, out, "ChannelA")
}

func TestExportCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	out, err := run(t, "export", "--out", dir, "--channel", "ChannelA",
		"--metric", "total-score", "--format", "svg", "--sqlite", "--json")
	require.NoError(t, err)

	for _, name := range []string{
		"channela-sentiment.svg",
		"channela-trends.svg",
		"ranking-total-score.svg",
		"channela-snapshot.svg",
		"channela.json",
		export.DefaultSQLiteFile,
	} {
		_, statErr := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, statErr, name)
		assert.Contains(t, out, name)
	}
}

func TestExportSkipsEmptyCharts(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "export", "--out", dir, "--channel", "ChannelC")
	require.NoError(t, err)
	assert.Contains(t, out, "skipped")
	_, statErr := os.Stat(filepath.Join(dir, "channelc-sentiment.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExportBadFormat(t *testing.T) {
	_, err := run(t, "export", "--out", t.TempDir(), "--format", "gif")
	assert.Error(t, err)
}

func TestMissingDataFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	root := newRootCmd()
	root.SetArgs([]string{
		"--influencers", filepath.Join(dir, loader.DefaultInfluencersFile),
		"--sentiment", filepath.Join(dir, loader.DefaultSentimentFile),
		"--env-file", "",
		"summary",
	})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), loader.DefaultInfluencersFile)
}

func TestConfigDefaults(t *testing.T) {
	cfgDir := t.TempDir()
	cfgPath := filepath.Join(cfgDir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("dashboard:\n  metric: Total Score\n  top_n: 1\n"), 0o644))

	out, err := run(t, "--config", cfgPath, "rank")
	require.NoError(t, err)
	assert.Contains(t, out, "Top 1 Influencers by "+model.MetricTotalScore.String())
	assert.Contains(t, out, "ChannelB")
	assert.NotContains(t, out, "ChannelA")
}

func TestExportRunsHooks(t *testing.T) {
	work := t.TempDir()
	hooksFile := filepath.Join(work, ".sentiboard", "hooks.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(hooksFile), 0o755))
	require.NoError(t, os.WriteFile(hooksFile, []byte(`
hooks:
  post-export:
    - name: record
      command: echo "$SENTIBOARD_EXPORT_CHANNEL" > "$SENTIBOARD_EXPORT_DIR/hook.txt"
`), 0o644))
	t.Chdir(work)

	dir := filepath.Join(work, "out")
	out, err := run(t, "export", "--out", dir, "--channel", "ChannelB")
	require.NoError(t, err)
	assert.Contains(t, out, "Hooks: 1 succeeded, 0 failed")

	got, err := os.ReadFile(filepath.Join(dir, "hook.txt"))
	require.NoError(t, err)
	assert.Equal(t, "ChannelB\n", string(got))

	_, err = run(t, "export", "--out", filepath.Join(work, "skip"), "--no-hooks")
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(work, "skip", "hook.txt"))
	assert.True(t, os.IsNotExist(statErr))
}
