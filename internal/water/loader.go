package water

import (
	"context"
	"os"
	"sync"

	"github.com/patrickmn/go-cache"

	"github.com/urbano-mdr/urbano/internal/logging"
	"github.com/urbano-mdr/urbano/internal/observability"
)

const (
	datasetName = "water"
	cacheKey    = "dataset"
)

// Loader loads the dataset once and keeps it cached. Failures are not
// cached, so a fixed file is picked up on the next request.
type Loader struct {
	mu      sync.Mutex
	path    string
	cache   *cache.Cache
	metrics *observability.Metrics
}

func NewLoader(path string, m *observability.Metrics) *Loader {
	return &Loader{
		path:    path,
		cache:   cache.New(cache.NoExpiration, 0),
		metrics: m,
	}
}

// Dataset returns the cached dataset, loading it on first use.
func (l *Loader) Dataset(ctx context.Context) (*Dataset, error) {
	if v, ok := l.cache.Get(cacheKey); ok {
		return v.(*Dataset), nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if v, ok := l.cache.Get(cacheKey); ok {
		return v.(*Dataset), nil
	}
	ds, err := Load(l.path)
	if err != nil {
		logging.Error(ctx, err, logging.Data{"path": l.path}, "failed to load water dataset")
		l.observe("error", 0)
		return nil, err
	}
	logging.Info(ctx, logging.Data{"path": l.path, "features": len(ds.Rows)}, "water dataset loaded")
	l.observe("success", len(ds.Rows))
	l.cache.Set(cacheKey, ds, cache.NoExpiration)
	return ds, nil
}

// Invalidate drops the cached dataset.
func (l *Loader) Invalidate() {
	l.cache.Delete(cacheKey)
}

// ReloadOn drops the cache and reloads the file each time reload fires,
// until ctx is done. A failed reload leaves the cache empty so requests
// show the error.
func (l *Loader) ReloadOn(ctx context.Context, reload <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-reload:
			logging.Info(ctx, logging.Data{"signal": sig.String(), "path": l.path}, "reloading water dataset")
			l.Invalidate()
			_, _ = l.Dataset(ctx)
		}
	}
}

func (l *Loader) observe(outcome string, n int) {
	if l.metrics == nil {
		return
	}
	l.metrics.DatasetLoads.WithLabelValues(datasetName, outcome).Inc()
	if outcome == "success" {
		l.metrics.DatasetRecords.WithLabelValues(datasetName).Set(float64(n))
	}
}
