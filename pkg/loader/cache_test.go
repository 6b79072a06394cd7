package loader

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestCache_ReusesUntilFilesChange(t *testing.T) {
	paths := writeFixture(t, influencersCSV, sentimentCSV)
	c := NewCache(paths)

	loads := 0
	c.load = func(ctx context.Context, p Paths) (*Dataset, error) {
		loads++
		return LoadDataset(ctx, p)
	}

	first, err := c.Get(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Get(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first != second || loads != 1 {
		t.Fatalf("expected cached dataset, loads=%d", loads)
	}

	updated := influencersCSV + "ChannelC,1,1,1,1,1\n"
	if err := os.WriteFile(paths.Influencers, []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(paths.Influencers, future, future); err != nil {
		t.Fatal(err)
	}

	third, err := c.Get(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if loads != 2 {
		t.Fatalf("expected reload after change, loads=%d", loads)
	}
	if len(third.Influencers) != 3 {
		t.Errorf("expected 3 influencers after reload, got %d", len(third.Influencers))
	}
}

func TestCache_Invalidate(t *testing.T) {
	paths := writeFixture(t, influencersCSV, sentimentCSV)
	c := NewCache(paths)
	loads := 0
	c.load = func(ctx context.Context, p Paths) (*Dataset, error) {
		loads++
		return LoadDataset(ctx, p)
	}

	if _, err := c.Get(context.Background()); err != nil {
		t.Fatal(err)
	}
	c.Invalidate()
	if _, err := c.Get(context.Background()); err != nil {
		t.Fatal(err)
	}
	if loads != 2 {
		t.Errorf("expected 2 loads, got %d", loads)
	}
}

func TestCache_MissingFile(t *testing.T) {
	paths := DefaultPaths(t.TempDir())
	if _, err := NewCache(paths).Get(context.Background()); err == nil {
		t.Fatal("expected error for missing files")
	}
}
