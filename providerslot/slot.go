// Package providerslot stores a slotcache entry in a provider.Provider.
//
// The entry's key and value are encoded with their codecs and framed together
// (internal/wire), then written with one provider Set. Readers therefore get
// the old frame or the new frame, never a key from one publish with a value
// from another. Several caches (or processes, with the Redis provider) pointing
// at the same Namespace share the slot; writes are last-writer-wins.
//
//	p, _ := bigcache.New(bigcache.Config{LifeWindow: 10 * time.Minute})
//	s, _ := providerslot.New(providerslot.Config[uint64, []uint64]{
//	    Namespace:  "factors",
//	    Provider:   p,
//	    KeyCodec:   codec.JSON[uint64]{},
//	    ValueCodec: codec.Msgpack[[]uint64]{},
//	})
//	c, _ := slotcache.New(slotcache.Options[uint64, []uint64]{Compute: factorize, Slot: s})
package providerslot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/unkn0wn-root/slotcache"
	"github.com/unkn0wn-root/slotcache/codec"
	"github.com/unkn0wn-root/slotcache/internal/wire"
	pr "github.com/unkn0wn-root/slotcache/provider"
)

var (
	ErrProviderRequired = errors.New("providerslot: provider is required")
	ErrCodecRequired    = errors.New("providerslot: key and value codecs are required")
)

type CostFunc func(storageKey string, frame []byte) int64

// Config configures a provider-backed slot.
// Provider, KeyCodec and ValueCodec are required.
type Config[K comparable, V any] struct {
	// Required
	Provider   pr.Provider
	KeyCodec   codec.Codec[K]
	ValueCodec codec.Codec[V]

	Namespace     string        // storage key is "slot:<ns>"; "" => "default"
	TTL           time.Duration // <= 0 => no expiry (where the provider supports it)
	Cost          CostFunc      // default len(frame)
	CloseProvider bool          // Close also closes Provider
}

type Slot[K comparable, V any] struct {
	p             pr.Provider
	kc            codec.Codec[K]
	vc            codec.Codec[V]
	key           string
	ttl           time.Duration
	cost          CostFunc
	closeProvider bool
}

var _ slotcache.Slot[string, []byte] = (*Slot[string, []byte])(nil)

func New[K comparable, V any](cfg Config[K, V]) (*Slot[K, V], error) {
	if cfg.Provider == nil {
		return nil, ErrProviderRequired
	}
	if cfg.KeyCodec == nil || cfg.ValueCodec == nil {
		return nil, ErrCodecRequired
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = "default"
	}
	s := &Slot[K, V]{
		p:             cfg.Provider,
		kc:            cfg.KeyCodec,
		vc:            cfg.ValueCodec,
		key:           StorageKey(ns),
		ttl:           cfg.TTL,
		cost:          cfg.Cost,
		closeProvider: cfg.CloseProvider,
	}
	if s.cost == nil {
		s.cost = func(_ string, frame []byte) int64 { return int64(len(frame)) }
	}
	return s, nil
}

// StorageKey is the provider key a slot in namespace ns uses.
func StorageKey(ns string) string { return "slot:" + ns }

func (s *Slot[K, V]) Load(ctx context.Context) (slotcache.Entry[K, V], bool, error) {
	var zero slotcache.Entry[K, V]
	raw, ok, err := s.p.Get(ctx, s.key)
	if err != nil || !ok {
		return zero, false, err
	}
	fe, err := wire.DecodeEntry(raw)
	if err != nil {
		return zero, false, s.heal(ctx, "frame", err)
	}
	// providers may hand back their own buffer; decode from copies
	k, err := s.kc.Decode(bytes.Clone(fe.Key))
	if err != nil {
		return zero, false, s.heal(ctx, "key_decode", err)
	}
	v, err := s.vc.Decode(bytes.Clone(fe.Value))
	if err != nil {
		return zero, false, s.heal(ctx, "value_decode", err)
	}
	return slotcache.Entry[K, V]{Key: k, Value: v, Gen: fe.Gen}, true, nil
}

func (s *Slot[K, V]) Store(ctx context.Context, e slotcache.Entry[K, V]) error {
	kb, err := s.kc.Encode(e.Key)
	if err != nil {
		return fmt.Errorf("providerslot: encode key: %w", err)
	}
	vb, err := s.vc.Encode(e.Value)
	if err != nil {
		return fmt.Errorf("providerslot: encode value: %w", err)
	}
	frame, err := wire.EncodeEntry(e.Gen, kb, vb)
	if err != nil {
		return err
	}
	ok, err := s.p.Set(ctx, s.key, frame, s.cost(s.key, frame), s.ttl)
	if err != nil {
		return err
	}
	if !ok {
		return slotcache.ErrSlotRejected
	}
	return nil
}

func (s *Slot[K, V]) Close(ctx context.Context) error {
	if s.closeProvider {
		return s.p.Close(ctx)
	}
	return nil
}

// heal deletes the unreadable frame. A frame stored by another writer between
// our Get and this Del is lost too; the next Lookup recomputes it.
func (s *Slot[K, V]) heal(ctx context.Context, reason string, cause error) error {
	_ = s.p.Del(ctx, s.key)
	return fmt.Errorf("%w: %s: %w", slotcache.ErrCorruptEntry, reason, cause)
}
