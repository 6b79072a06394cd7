package loader

import (
	"context"
	"os"
	"sync"

	"github.com/vanderheijden86/sentiboard/pkg/debug"
	"github.com/vanderheijden86/sentiboard/pkg/metrics"
)

// fileStamp identifies one version of a file on disk.
type fileStamp struct {
	modTime int64 // UnixNano
	size    int64
}

func stampOf(path string) (fileStamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, err
	}
	return fileStamp{modTime: info.ModTime().UnixNano(), size: info.Size()}, nil
}

// Cache memoizes one Dataset for a fixed pair of paths. The cached value is
// reused until either file changes on disk or Invalidate is called.
type Cache struct {
	paths Paths
	load  func(context.Context, Paths) (*Dataset, error)

	mu     sync.Mutex
	ds     *Dataset
	stamps [2]fileStamp
}

// NewCache returns an empty cache for paths.
func NewCache(paths Paths) *Cache {
	return &Cache{paths: paths, load: LoadDataset}
}

// Paths returns the file paths the cache is keyed by.
func (c *Cache) Paths() Paths {
	return c.paths
}

// Get returns the cached dataset, loading it when absent or stale.
func (c *Cache) Get(ctx context.Context) (*Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	infStamp, err := stampOf(c.paths.Influencers)
	if err != nil {
		return nil, err
	}
	sentStamp, err := stampOf(c.paths.Sentiment)
	if err != nil {
		return nil, err
	}
	current := [2]fileStamp{infStamp, sentStamp}

	if c.ds != nil && current == c.stamps {
		metrics.DatasetCache.Hit()
		return c.ds, nil
	}
	metrics.DatasetCache.Miss()
	debug.LogIf(c.ds != nil, "dataset files changed, reloading")

	ds, err := c.load(ctx, c.paths)
	if err != nil {
		return nil, err
	}
	c.ds = ds
	c.stamps = current
	return ds, nil
}

// Invalidate drops the cached dataset so the next Get reloads.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ds = nil
}
