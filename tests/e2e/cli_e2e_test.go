package main_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, writeSampleDir(dir))
	return dir
}

func TestCLIVersion(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "version")
	require.NoError(t, err, string(out))
	assert.True(t, strings.HasPrefix(string(out), "sentiboard "), string(out))
}

func TestCLIDiscoversWorkDirFiles(t *testing.T) {
	dir := sampleDir(t)
	out, err := runCLI(t, dir, "summary", "ChannelA")
	require.NoError(t, err, string(out))
	assert.Contains(t, string(out), "Engagement Rate: 5.25%")
}

func TestCLIDiscoversDataDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	require.NoError(t, writeSampleDir(filepath.Join(dir, "data")))

	out, err := runCLI(t, dir, "rank", "--metric", "total-score", "--json")
	require.NoError(t, err, string(out))

	var panel struct {
		Metric string `json:"metric"`
		Rows   []struct {
			Rank int `json:"rank"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(out, &panel), string(out))
	assert.Equal(t, "Total Score", panel.Metric)
	assert.Len(t, panel.Rows, 3)
}

func TestCLIEnvOverridesMetric(t *testing.T) {
	dir := sampleDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SENTIBOARD_METRIC=sentiment-weighted-engagement\n"), 0o644))

	out, err := runCLI(t, dir, "rank", "--top", "1")
	require.NoError(t, err, string(out))
	assert.Contains(t, string(out), "Top 1 Influencers by Sentiment Weighted Engagement")
	assert.Contains(t, string(out), "ChannelC")
}

func TestCLIMissingFiles(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "summary")
	require.Error(t, err)
	assert.Contains(t, string(out), "influencers_data.csv")
}

func TestCLIExport(t *testing.T) {
	dir := sampleDir(t)
	outDir := filepath.Join(dir, "charts")
	out, err := runCLI(t, dir, "export", "--out", outDir, "--format", "svg", "--markdown")
	require.NoError(t, err, string(out))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "channela-snapshot.svg")
	assert.Contains(t, names, "channela.md")

	md, err := os.ReadFile(filepath.Join(outDir, "channela.md"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(md), "| Engagement Rate | 5.25% |"))
}

func TestTUIAutoClose(t *testing.T) {
	skipIfNoScript(t)
	dir := sampleDir(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := scriptTUICommand(ctx, binaryPath, "--channel", "ChannelB")
	require.NotNil(t, cmd)
	cmd.Dir = dir
	cmd.Env = tuiEnv(dir, 500)

	out, err := cmd.CombinedOutput()
	require.NoError(t, ctx.Err(), "TUI did not exit")
	require.NoError(t, err, string(out))
	assert.Contains(t, string(out), "ChannelB")
}
