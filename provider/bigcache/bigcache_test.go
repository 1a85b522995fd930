package bigcache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := New(Config{LifeWindow: time.Minute, Shards: 16, MaxEntriesInWindow: 64, MaxEntrySize: 256})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	return p
}

func TestGetSetDel(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)

	if _, ok, err := p.Get(ctx, "slot:factors"); err != nil || ok {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}
	frame := []byte("frame-1")
	if ok, err := p.Set(ctx, "slot:factors", frame, 1, 0); err != nil || !ok {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}
	got, ok, err := p.Get(ctx, "slot:factors")
	if err != nil || !ok || !bytes.Equal(got, frame) {
		t.Fatalf("Get: ok=%v err=%v got=%q", ok, err, got)
	}

	// replace as a whole
	if _, err := p.Set(ctx, "slot:factors", []byte("frame-2-longer"), 1, 0); err != nil {
		t.Fatalf("Set replace: %v", err)
	}
	got, _, _ = p.Get(ctx, "slot:factors")
	if string(got) != "frame-2-longer" {
		t.Fatalf("replace: got %q", got)
	}

	if err := p.Del(ctx, "slot:factors"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok, _ := p.Get(ctx, "slot:factors"); ok {
		t.Fatalf("expected miss after Del")
	}
	// deleting a missing key is not an error
	if err := p.Del(ctx, "slot:factors"); err != nil {
		t.Fatalf("Del missing: %v", err)
	}
}
