package sloghooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/unkn0wn-root/slotcache"
)

func newBufLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h), &buf
}

func TestSampling(t *testing.T) {
	l, buf := newBufLogger()
	h := New(l, Options{HitEvery: 4})
	for i := 0; i < 8; i++ {
		h.Hit("factors", uint64(i))
	}
	if n := strings.Count(buf.String(), "slotcache.hit"); n != 2 {
		t.Fatalf("expected 2 sampled hits, got %d", n)
	}
	for i := 0; i < 3; i++ {
		h.Miss("factors")
	}
	if n := strings.Count(buf.String(), "slotcache.miss"); n != 3 {
		t.Fatalf("unsampled misses: got %d want 3", n)
	}
}

func TestSlotErrorLevels(t *testing.T) {
	l, buf := newBufLogger()
	h := New(l, Options{})

	h.SlotError(&slotcache.SlotError{Cache: "factors", Op: "store", Err: fmt.Errorf("full: %w", slotcache.ErrSlotRejected)})
	h.SlotError(&slotcache.SlotError{Cache: "factors", Op: "load", Err: errors.New("dial tcp: refused")})
	h.SlotError(nil)

	out := buf.String()
	if !strings.Contains(out, "level=INFO msg=slotcache.slot_rejected") {
		t.Fatalf("rejected store should log at info:\n%s", out)
	}
	if !strings.Contains(out, "level=WARN msg=slotcache.slot_error") || !strings.Contains(out, "op=load") {
		t.Fatalf("load failure should log at warn:\n%s", out)
	}
}

func TestNilLoggerIsSilent(t *testing.T) {
	h := New(nil, Options{})
	h.Hit("x", 1)
	h.ComputeFailed("x", errors.New("boom"))
	h.SelfHeal("x", slotcache.ErrCorruptEntry)
}

func TestWiredIntoCache(t *testing.T) {
	l, buf := newBufLogger()
	cc, err := slotcache.New(slotcache.Options[int, int]{
		Name:    "squares",
		Compute: func(_ context.Context, n int) (int, error) { return n * n, nil },
		Hooks:   New(l, Options{}),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, _ = cc.Lookup(context.Background(), 3)
	_, _ = cc.Lookup(context.Background(), 3)

	out := buf.String()
	for _, want := range []string{"slotcache.miss", "slotcache.published", "slotcache.hit", "cache=squares"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}
