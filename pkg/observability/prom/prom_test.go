package prom

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/sliced/pkg/observability"
)

func TestMetricsCount(t *testing.T) {
	ctx := context.Background()
	m := New(prometheus.NewRegistry())

	m.OnLayoutComplete(ctx, 10, 3, time.Millisecond, nil)
	m.OnLayoutComplete(ctx, 10, 0, time.Millisecond, errors.New("boom"))
	m.OnRenderComplete(ctx, "pdf", 2048, time.Second, nil)
	m.OnCacheHit(ctx, "layout")
	m.OnCacheMiss(ctx, "layout")
	m.OnCacheMiss(ctx, "layout")
	m.OnRequest(ctx, "POST", "/v1/layout", 200, time.Millisecond)

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"layouts ok", m.layouts.WithLabelValues("ok"), 1},
		{"layouts error", m.layouts.WithLabelValues("error"), 1},
		{"renders", m.renders.WithLabelValues("pdf", "ok"), 1},
		{"render bytes", m.renderBytes.WithLabelValues("pdf"), 2048},
		{"cache hits", m.cacheOps.WithLabelValues("layout", "hit"), 1},
		{"cache misses", m.cacheOps.WithLabelValues("layout", "miss"), 2},
		{"requests", m.requests.WithLabelValues("POST", "/v1/layout", "200"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.c); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHandler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Register()
	defer observability.Reset()

	observability.Cache().OnCacheSet(context.Background(), "artifact", 10)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `sliced_cache_operations_total{key_type="artifact",op="set"} 1`) {
		t.Errorf("metrics output missing cache counter:\n%s", body)
	}
}
