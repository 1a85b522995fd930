package promhooks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/unkn0wn-root/slotcache"
)

func TestCountersFollowLookups(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg, "app")

	boom := errors.New("boom")
	cc, err := slotcache.New(slotcache.Options[int, int]{
		Name: "squares",
		Compute: func(_ context.Context, n int) (int, error) {
			if n < 0 {
				return 0, boom
			}
			return n * n, nil
		},
		Hooks: h,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	for _, n := range []int{3, 3, 4, -1, 4} {
		_, _ = cc.Lookup(ctx, n)
	}

	checks := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"hits", h.Lookups.WithLabelValues("squares", "hit"), 2},
		{"misses", h.Lookups.WithLabelValues("squares", "miss"), 3},
		{"failures", h.ComputeFailures.WithLabelValues("squares"), 1},
		{"publishes", h.Publishes.WithLabelValues("squares"), 2},
	}
	for _, c := range checks {
		if got := testutil.ToFloat64(c.c); got != c.want {
			t.Fatalf("%s: got %v want %v", c.name, got, c.want)
		}
	}
}

func TestSlotErrorsByOp(t *testing.T) {
	h := New(prometheus.NewRegistry(), "")
	h.SlotError(&slotcache.SlotError{Cache: "c", Op: "load", Err: errors.New("x")})
	h.SlotError(&slotcache.SlotError{Cache: "c", Op: "load", Err: errors.New("y")})
	h.SlotError(&slotcache.SlotError{Cache: "c", Op: "store", Err: slotcache.ErrSlotRejected})
	h.SlotError(nil)
	h.SelfHeal("c", slotcache.ErrCorruptEntry)

	if got := testutil.ToFloat64(h.SlotErrors.WithLabelValues("c", "load")); got != 2 {
		t.Fatalf("load errors: %v", got)
	}
	if got := testutil.ToFloat64(h.SlotErrors.WithLabelValues("c", "store")); got != 1 {
		t.Fatalf("store errors: %v", got)
	}
	if got := testutil.ToFloat64(h.SelfHeals.WithLabelValues("c")); got != 1 {
		t.Fatalf("self heals: %v", got)
	}
}

func TestRegisterRequestCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	cc, err := slotcache.New(slotcache.Options[int, int]{
		Compute: func(_ context.Context, n int) (int, error) { return n, nil },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := RegisterRequestCount(reg, "app", "ids", cc); err != nil {
		t.Fatalf("RegisterRequestCount: %v", err)
	}
	for i := 0; i < 5; i++ {
		_, _ = cc.Lookup(context.Background(), i%2)
	}

	want := `
# HELP app_slotcache_requests_total Lookups answered by the cache, hits and misses alike
# TYPE app_slotcache_requests_total counter
app_slotcache_requests_total{cache="ids"} 5
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "app_slotcache_requests_total"); err != nil {
		t.Fatalf("gather: %v", err)
	}

	if _, err := RegisterRequestCount(reg, "app", "ids", cc); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}
