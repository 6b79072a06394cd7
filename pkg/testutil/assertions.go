package testutil

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/sentiboard/pkg/analysis"
	"github.com/vanderheijden86/sentiboard/pkg/loader"
	"github.com/vanderheijden86/sentiboard/pkg/model"
)

// WriteDataset writes ds as the two CSV files in dir and returns their paths.
func WriteDataset(t *testing.T, dir string, ds *loader.Dataset) loader.Paths {
	t.Helper()

	paths := loader.DefaultPaths(dir)
	writeCSV(t, paths.Influencers, func(f *os.File) error {
		return loader.WriteInfluencers(f, ds.Influencers)
	})
	writeCSV(t, paths.Sentiment, func(f *os.File) error {
		return loader.WriteSentiment(f, ds.Sentiment)
	})
	return paths
}

// TempDataset writes ds into a fresh temp dir.
func TempDataset(t *testing.T, ds *loader.Dataset) loader.Paths {
	t.Helper()
	return WriteDataset(t, t.TempDir(), ds)
}

func writeCSV(t *testing.T, path string, write func(*os.File) error) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// AssertRanking checks that rows are numbered 1..n and non-increasing, with
// NaN values only at the tail.
func AssertRanking(t *testing.T, rows []analysis.Ranked) {
	t.Helper()

	seenNaN := false
	for i, r := range rows {
		if r.Rank != i+1 {
			t.Errorf("row %d: rank %d, want %d", i, r.Rank, i+1)
		}
		v := float64(r.Value)
		if math.IsNaN(v) {
			seenNaN = true
			continue
		}
		if seenNaN {
			t.Errorf("row %d: finite value %v after NaN", i, v)
		}
		if i > 0 && !math.IsNaN(float64(rows[i-1].Value)) && float64(rows[i-1].Value) < v {
			t.Errorf("row %d: %v ranks above larger %v", i, rows[i-1].Value, v)
		}
	}
}

// AssertCountsEqual checks two sentiment totals.
func AssertCountsEqual(t *testing.T, want, got model.SentimentCounts) {
	t.Helper()
	if want != got {
		t.Errorf("counts mismatch:\nexpected: %+v\nactual:   %+v", want, got)
	}
}

// AssertJSONEqual compares two values after JSON round-tripping.
// Useful for comparing structs that may have different Go representations
// but equivalent JSON forms.
func AssertJSONEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}

	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}

	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// SumCounts totals the sentiment counts of records.
func SumCounts(records []model.SentimentRecord) model.SentimentCounts {
	var c model.SentimentCounts
	for _, r := range records {
		c = c.Add(r.SentimentCounts)
	}
	return c
}
