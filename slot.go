package slotcache

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"

	c "github.com/unkn0wn-root/slotcache/codec"
)

// Entry is one published (key, value) pair. Value is exactly compute(Key).
// Entries are never modified after publication; a new Entry replaces the old one.
// Gen is a per-cache publish sequence number (unique, not ordered by store time).
type Entry[K comparable, V any] struct {
	Key   K
	Value V
	Gen   uint64
}

// Slot holds at most one Entry. Implementations must be safe for concurrent use
// and must replace the whole entry in one indivisible write: a Load concurrent
// with a Store returns either the old entry or the new one, never a mix.
type Slot[K comparable, V any] interface {
	// Load returns (entry, true, nil) when populated; (zero, false, nil) when empty.
	// Backend failures return (zero, false, err).
	Load(ctx context.Context) (Entry[K, V], bool, error)

	// Store replaces the current entry with e.
	Store(ctx context.Context, e Entry[K, V]) error

	// Close releases resources (no-op ok).
	Close(ctx context.Context) error
}

// LocalSlot keeps the entry behind a single atomic pointer (default slot).
type LocalSlot[K comparable, V any] struct {
	p atomic.Pointer[Entry[K, V]]
}

var _ Slot[string, int] = (*LocalSlot[string, int])(nil)

func NewLocalSlot[K comparable, V any]() *LocalSlot[K, V] {
	return &LocalSlot[K, V]{}
}

func (s *LocalSlot[K, V]) Load(context.Context) (Entry[K, V], bool, error) {
	e := s.p.Load()
	if e == nil {
		return Entry[K, V]{}, false, nil
	}
	return *e, true, nil
}

func (s *LocalSlot[K, V]) Store(_ context.Context, e Entry[K, V]) error {
	s.p.Store(&e) // e is our own copy; the pointer is never written through
	return nil
}

func (s *LocalSlot[K, V]) Close(context.Context) error { return nil }

type frozenEntry[K comparable] struct {
	key     K
	gen     uint64
	payload []byte
}

// FrozenSlot is a local slot that keeps the value encoded with a Codec.
// Every Load decodes a private copy, so callers that mutate a returned slice
// or map cannot change what later hits observe.
type FrozenSlot[K comparable, V any] struct {
	codec c.Codec[V]
	p     atomic.Pointer[frozenEntry[K]]
}

var _ Slot[string, []int] = (*FrozenSlot[string, []int])(nil)

func NewFrozenSlot[K comparable, V any](codec c.Codec[V]) *FrozenSlot[K, V] {
	return &FrozenSlot[K, V]{codec: codec}
}

func (s *FrozenSlot[K, V]) Load(context.Context) (Entry[K, V], bool, error) {
	f := s.p.Load()
	if f == nil {
		return Entry[K, V]{}, false, nil
	}
	// identity codecs hand the input back; never expose the frozen bytes
	v, err := s.codec.Decode(bytes.Clone(f.payload))
	if err != nil {
		s.p.CompareAndSwap(f, nil) // self-heal unless someone already replaced it
		return Entry[K, V]{}, false, fmt.Errorf("%w: %w", ErrCorruptEntry, err)
	}
	return Entry[K, V]{Key: f.key, Value: v, Gen: f.gen}, true, nil
}

func (s *FrozenSlot[K, V]) Store(_ context.Context, e Entry[K, V]) error {
	payload, err := s.codec.Encode(e.Value)
	if err != nil {
		return err
	}
	s.p.Store(&frozenEntry[K]{key: e.Key, gen: e.Gen, payload: bytes.Clone(payload)})
	return nil
}

func (s *FrozenSlot[K, V]) Close(context.Context) error { return nil }
