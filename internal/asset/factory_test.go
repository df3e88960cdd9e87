package asset

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/owzim/blick/internal/config"
	"github.com/owzim/blick/internal/metrics"
	"github.com/owzim/blick/internal/storage"
	"github.com/owzim/blick/internal/strfmt"
)

// counterValue sums every series of the named counter family in reg.
func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			sum += m.GetCounter().GetValue()
		}
	}
	return sum
}

func TestFactory_SameKeyReturnsSameAsset(t *testing.T) {
	t.Parallel()
	f := NewFactory(storage.NewMemFS(), testRoots)
	conf := scriptConfig()

	a := f.Get("main", config.Script, conf, strfmt.Positional("x"), false)
	b := f.Get("main", config.Script, conf, strfmt.Positional("x"), false)
	if a != b {
		t.Error("expected the cached asset to be returned")
	}
	if f.Len() != 1 {
		t.Errorf("Len = %d, want 1", f.Len())
	}
}

func TestFactory_KeyDistinguishesTypeAndArgs(t *testing.T) {
	t.Parallel()
	f := NewFactory(storage.NewMemFS(), testRoots)
	conf := scriptConfig()

	base := f.Get("main", config.Script, conf, nil, false)
	if f.Get("main", config.Style, conf, nil, false) == base {
		t.Error("different type returned the same asset")
	}
	if f.Get("main", config.Script, conf, strfmt.Positional("x"), false) == base {
		t.Error("different args returned the same asset")
	}
	if f.Get("main", config.Script, conf, strfmt.Named("defer", "1"), false) == base {
		t.Error("named args returned the same asset")
	}
	if f.Len() != 4 {
		t.Errorf("Len = %d, want 4", f.Len())
	}
}

func TestFactory_ForceNewReplacesEntry(t *testing.T) {
	t.Parallel()
	fsys := storage.NewMemFS()
	fsys.Put("/site/scripts/main.js", []byte("x"), 1)
	conf := scriptConfig()
	conf.Versioning = true
	f := NewFactory(fsys, testRoots)

	old := f.Get("main", config.Script, conf, nil, false)
	if got := old.URL(); got != "/scripts/main.js?v=1" {
		t.Fatalf("URL = %q", got)
	}

	fsys.Put("/site/scripts/main.js", []byte("y"), 2)
	if got := f.Get("main", config.Script, conf, nil, false).URL(); got != "/scripts/main.js?v=1" {
		t.Errorf("cached URL = %q, want stale value", got)
	}

	fresh := f.Get("main", config.Script, conf, nil, true)
	if fresh == old {
		t.Fatal("forceNew returned the cached asset")
	}
	if got := fresh.URL(); got != "/scripts/main.js?v=2" {
		t.Errorf("fresh URL = %q", got)
	}
	if f.Get("main", config.Script, conf, nil, false) != fresh {
		t.Error("forceNew did not replace the cache entry")
	}
}

func TestFactory_Reset(t *testing.T) {
	t.Parallel()
	f := NewFactory(storage.NewMemFS(), testRoots)
	a := f.Get("main", config.Script, scriptConfig(), nil, false)
	f.Reset()
	if f.Len() != 0 {
		t.Errorf("Len = %d after Reset", f.Len())
	}
	if f.Get("main", config.Script, scriptConfig(), nil, false) == a {
		t.Error("Reset kept the old asset")
	}
}

func TestFactory_RecordsCacheMetrics(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	f := NewFactory(storage.NewMemFS(), testRoots, WithMetrics(metrics.New(metrics.WithRegistry(reg))))

	f.Get("main", config.Script, scriptConfig(), nil, false)
	f.Get("main", config.Script, scriptConfig(), nil, false)
	f.Get("main", config.Script, scriptConfig(), nil, false)
	f.Get("main", config.Script, scriptConfig(), nil, true)

	if got := counterValue(t, reg, "blick_asset_cache_misses_total"); got != 2 {
		t.Errorf("misses = %v, want 2", got)
	}
	if got := counterValue(t, reg, "blick_asset_cache_hits_total"); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
}

func TestFactory_ConcurrentGet(t *testing.T) {
	t.Parallel()
	fsys := storage.NewMemFS()
	fsys.Put("/site/scripts/main.js", []byte("x"), 42)
	conf := scriptConfig()
	conf.Versioning = true
	f := NewFactory(fsys, testRoots)

	var wg sync.WaitGroup
	urls := make([]string, 32)
	for i := range urls {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			urls[i] = f.Get("main", config.Script, conf, nil, false).URL()
		}(i)
	}
	wg.Wait()

	for i, u := range urls {
		if u != "/scripts/main.js?v=42" {
			t.Errorf("urls[%d] = %q", i, u)
		}
	}
	if f.Len() != 1 {
		t.Errorf("Len = %d, want 1", f.Len())
	}
}
