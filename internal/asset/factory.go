package asset

import (
	"sync"

	"go.uber.org/zap"

	"github.com/owzim/blick/internal/config"
	"github.com/owzim/blick/internal/metrics"
	"github.com/owzim/blick/internal/storage"
	"github.com/owzim/blick/internal/strfmt"
)

// Factory memoizes resolved assets by (reference, type, template args). It
// is safe for concurrent use. The cache is unbounded; a Factory is meant to
// live for one render pass, or as long as the set of references is bounded.
type Factory struct {
	fs      storage.FileSystem
	roots   config.SiteRoots
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu    sync.Mutex
	cache map[string]*Asset
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithLogger sets the logger used for cache diagnostics.
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithMetrics sets the counters cache hits and misses are recorded on.
func WithMetrics(m *metrics.Metrics) FactoryOption {
	return func(f *Factory) {
		f.metrics = m
	}
}

// NewFactory creates a Factory resolving against roots and reading files
// through fsys.
func NewFactory(fsys storage.FileSystem, roots config.SiteRoots, opts ...FactoryOption) *Factory {
	f := &Factory{
		fs:     fsys,
		roots:  roots,
		logger: zap.NewNop(),
		cache:  make(map[string]*Asset),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// cacheKey builds the map key for an asset.
func cacheKey(ref string, t config.AssetType, args strfmt.Values) string {
	return ref + "-" + string(t) + "-" + args.Join("-")
}

// Get returns the cached asset for (ref, t, args), building and caching it
// when absent or when forceNew is set. conf is only used when building.
func (f *Factory) Get(ref string, t config.AssetType, conf config.TypeConfig, args strfmt.Values, forceNew bool) *Asset {
	key := cacheKey(ref, t, args)

	f.mu.Lock()
	defer f.mu.Unlock()

	if a, ok := f.cache[key]; ok && !forceNew {
		f.metrics.CacheHit(string(t))
		return a
	}

	f.metrics.CacheMiss(string(t))
	f.logger.Debug("resolving asset",
		zap.String("ref", ref),
		zap.String("type", string(t)),
		zap.Bool("forceNew", forceNew),
	)

	a := New(ref, t, conf, f.roots, args, f.fs)
	f.cache[key] = a
	return a
}

// Len returns the number of cached assets.
func (f *Factory) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cache)
}

// Reset drops every cached asset.
func (f *Factory) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache = make(map[string]*Asset)
}
