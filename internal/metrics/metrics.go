// Package metrics exposes prometheus counters for asset resolution and image
// variant generation. A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "blick").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// Metrics holds the counters.
type Metrics struct {
	cacheHits         *prometheus.CounterVec
	cacheMisses       *prometheus.CounterVec
	variantsGenerated prometheus.Counter
	variantFailures   prometheus.Counter
}

// New registers the counters and returns them.
func New(opts ...Option) *Metrics {
	cfg := Config{
		Namespace: "blick",
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)

	return &Metrics{
		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   "asset",
			Name:        "cache_hits_total",
			Help:        "Asset lookups served from the reference cache.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"type"}),
		cacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   "asset",
			Name:        "cache_misses_total",
			Help:        "Asset lookups that built a new resolved asset.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"type"}),
		variantsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   "image",
			Name:        "variants_generated_total",
			Help:        "Image variants written by the resizer.",
			ConstLabels: cfg.ConstLabels,
		}),
		variantFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   "image",
			Name:        "variant_failures_total",
			Help:        "Image variant generations that failed.",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

// CacheHit records a reference cache hit for the asset type.
func (m *Metrics) CacheHit(assetType string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(assetType).Inc()
}

// CacheMiss records a reference cache miss for the asset type.
func (m *Metrics) CacheMiss(assetType string) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(assetType).Inc()
}

// VariantGenerated records a successfully written image variant.
func (m *Metrics) VariantGenerated() {
	if m == nil {
		return
	}
	m.variantsGenerated.Inc()
}

// VariantFailed records a failed image variant.
func (m *Metrics) VariantFailed() {
	if m == nil {
		return
	}
	m.variantFailures.Inc()
}
