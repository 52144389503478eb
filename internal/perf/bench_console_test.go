package perf

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/inventario-agricola/inventario/internal/backend"
	"github.com/inventario-agricola/inventario/internal/bridge"
)

func newBridge(tb testing.TB) *bridge.Bridge {
	tb.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"codigo":"S1","nombre":"Maíz","precio":12.5,"stock":40}`)
	}))
	tb.Cleanup(srv.Close)

	dir := backend.NewDirectory(backend.EndpointsFromBase(srv.URL + "/api/v1"))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return bridge.NewFromDirectory(dir, bridge.Config{Toasts: true}, bridge.WithLogger(logger))
}

func TestLocalSubmitLatencyTarget(t *testing.T) {
	forms := newBridge(t)
	ctx := context.Background()

	samples := make([]time.Duration, 0, 50)
	for i := 0; i < cap(samples); i++ {
		start := time.Now()
		out, err := forms.Submit(ctx, "perf", bridge.FormSeedGet, bridge.Values{"codigo": "S1"})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if out.Failed() {
			t.Fatalf("submit failed: %s", out.Render())
		}
		samples = append(samples, time.Since(start))
	}

	const threshold = 250 * time.Millisecond
	if p95 := percentile95(samples); p95 > threshold {
		t.Fatalf("seed-get latency regression: p95=%s threshold=%s", p95, threshold)
	}
}

func BenchmarkSubmitSeedGet(b *testing.B) {
	forms := newBridge(b)
	ctx := context.Background()
	values := bridge.Values{"codigo": "S1"}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := forms.Submit(ctx, "bench", bridge.FormSeedGet, values); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	out := bridge.Output{Form: bridge.FormSeedGet, Status: http.StatusOK, Data: []byte(`{"codigo":"S1","nombre":"Maíz","precio":12.5,"stock":40}`)}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = out.Render()
	}
}

func percentile95(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	index := int(float64(len(sorted)-1) * 0.95)
	if index < 0 {
		index = 0
	}
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}
