package slotcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

type cache[K comparable, V any] struct {
	name     string
	compute  ComputeFunc[K, V]
	validate ValidateFunc[K]
	policy   Policy
	slot     Slot[K, V]
	log      Logger
	hooks    Hooks

	enabled bool

	requests  atomic.Uint64
	hits      atomic.Uint64
	misses    atomic.Uint64
	failures  atomic.Uint64
	publishes atomic.Uint64
	gen       atomic.Uint64

	// PolicyExclusive: held across slot check, compute and publish
	mu sync.Mutex
	// PolicyCoalesce: one in-flight compute per key
	flight singleflight.Group

	closeOnce sync.Once
	closeErr  error
}

// flightResult carries the key a shared compute ran for, so a caller whose key
// only rendered to the same flight key can tell it apart.
type flightResult[K comparable, V any] struct {
	key   K
	value V
}

func newCache[K comparable, V any](opts Options[K, V]) (*cache[K, V], error) {
	if opts.Compute == nil {
		return nil, ErrNilCompute
	}
	if !opts.Policy.valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, opts.Policy)
	}
	if opts.Slot != nil && opts.Codec != nil {
		return nil, ErrCodecWithSlot
	}

	c := &cache[K, V]{
		compute:  opts.Compute,
		validate: opts.Validate,
		policy:   opts.Policy,
		enabled:  !opts.Disabled,
	}

	// defaults
	c.name = coalesce[string](opts.Name, defaultName)
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})

	switch {
	case opts.Slot != nil:
		c.slot = opts.Slot
	case opts.Codec != nil:
		c.slot = NewFrozenSlot[K, V](opts.Codec)
	default:
		c.slot = NewLocalSlot[K, V]()
	}
	return c, nil
}

func (c *cache[K, V]) Enabled() bool { return c.enabled }

func (c *cache[K, V]) Close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		c.closeErr = c.slot.Close(ctx)
	})
	return c.closeErr
}

func (c *cache[K, V]) Lookup(ctx context.Context, key K) (V, error) {
	if c.validate != nil {
		k, err := c.validate(key)
		if err != nil {
			var zero V
			return zero, err
		}
		key = k
	}

	// counted once per call, before any hit/miss branch
	c.requests.Add(1)

	if !c.enabled {
		c.misses.Add(1)
		v, err := c.compute(ctx, key)
		if err != nil {
			c.failures.Add(1)
		}
		return v, err
	}

	switch c.policy {
	case PolicyExclusive:
		return c.lookupExclusive(ctx, key)
	case PolicyCoalesce:
		return c.lookupCoalesce(ctx, key)
	default:
		return c.lookupOptimistic(ctx, key)
	}
}

func (c *cache[K, V]) lookupOptimistic(ctx context.Context, key K) (V, error) {
	if v, ok := c.cached(ctx, key); ok {
		return v, nil
	}
	return c.computeAndPublish(ctx, key)
}

func (c *cache[K, V]) lookupExclusive(ctx context.Context, key K) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.cached(ctx, key); ok {
		return v, nil
	}
	return c.computeAndPublish(ctx, key)
}

func (c *cache[K, V]) lookupCoalesce(ctx context.Context, key K) (V, error) {
	if v, ok := c.cached(ctx, key); ok {
		return v, nil
	}
	// the flight outlives any one caller; each caller waits on its own ctx
	ch := c.flight.DoChan(flightKey(key), func() (any, error) {
		fctx := context.WithoutCancel(ctx)
		// a flight for key may have finished between our miss and DoChan
		if e, ok := c.load(fctx); ok && e.Key == key {
			return flightResult[K, V]{key: key, value: e.Value}, nil
		}
		v, err := c.computeAndPublish(fctx, key)
		return flightResult[K, V]{key: key, value: v}, err
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		c.log.Debug("caller left in-flight compute", Fields{"cache": c.name, "err": ctx.Err()})
		var zero V
		return zero, ctx.Err()
	case res = <-ch:
	}

	r, _ := res.Val.(flightResult[K, V])
	// key == key is false for NaN-like keys, which can never match anyway
	if r.key != key && key == key {
		// distinct keys with the same rendering; don't hand out a foreign value
		c.log.Debug("flight key collision; computing separately", Fields{"cache": c.name})
		return c.computeAndPublish(ctx, key)
	}
	if res.Shared {
		c.log.Debug("miss joined in-flight compute", Fields{"cache": c.name, "key": key})
	}
	if res.Err != nil {
		var zero V
		return zero, res.Err
	}
	return r.value, nil
}

func (c *cache[K, V]) RequestCount() uint64 { return c.requests.Load() }

func (c *cache[K, V]) Peek(ctx context.Context) (Entry[K, V], bool) {
	if !c.enabled {
		return Entry[K, V]{}, false
	}
	return c.load(ctx)
}

func (c *cache[K, V]) Stats() Stats {
	return Stats{
		Requests:        c.requests.Load(),
		Hits:            c.hits.Load(),
		Misses:          c.misses.Load(),
		ComputeFailures: c.failures.Load(),
		Publishes:       c.publishes.Load(),
	}
}

// cached reads the slot once and reports a hit when the stored key equals key.
func (c *cache[K, V]) cached(ctx context.Context, key K) (V, bool) {
	e, ok := c.load(ctx)
	if ok && e.Key == key {
		c.hits.Add(1)
		c.hooks.Hit(c.name, e.Gen)
		return e.Value, true
	}
	c.misses.Add(1)
	c.hooks.Miss(c.name)
	var zero V
	return zero, false
}

func (c *cache[K, V]) load(ctx context.Context) (Entry[K, V], bool) {
	e, ok, err := c.slot.Load(ctx)
	if err == nil {
		return e, ok
	}
	if errors.Is(err, ErrCorruptEntry) {
		c.log.Debug("slot entry dropped (corrupt)", Fields{"cache": c.name, "err": err})
		c.hooks.SelfHeal(c.name, err)
	} else {
		serr := &SlotError{Cache: c.name, Op: "load", Err: err}
		c.log.Warn("slot load failed; treating as miss", Fields{"cache": c.name, "err": serr})
		c.hooks.SlotError(serr)
	}
	return Entry[K, V]{}, false
}

// computeAndPublish runs compute without holding any cache state and publishes
// the result as one fully built Entry. A failed compute leaves the slot alone.
func (c *cache[K, V]) computeAndPublish(ctx context.Context, key K) (V, error) {
	v, err := c.compute(ctx, key)
	if err != nil {
		c.failures.Add(1)
		c.log.Debug("compute failed; slot unchanged", Fields{"cache": c.name, "key": key, "err": err})
		c.hooks.ComputeFailed(c.name, err)
		var zero V
		return zero, err
	}
	c.publish(ctx, key, v)
	return v, nil
}

func (c *cache[K, V]) publish(ctx context.Context, key K, v V) {
	e := Entry[K, V]{Key: key, Value: v, Gen: c.gen.Add(1)}
	if err := c.slot.Store(ctx, e); err != nil {
		serr := &SlotError{Cache: c.name, Op: "store", Err: err}
		if serr.Rejected() {
			c.log.Debug("slot store rejected by backend (pressure)", Fields{"cache": c.name, "gen": e.Gen})
		} else {
			c.log.Warn("slot store failed; value returned unpublished", Fields{"cache": c.name, "err": serr})
		}
		c.hooks.SlotError(serr)
		return
	}
	c.publishes.Add(1)
	c.hooks.Published(c.name, e.Gen)
	c.log.Debug("published entry", Fields{"cache": c.name, "gen": e.Gen})
}

func flightKey[K comparable](key K) string {
	return fmt.Sprintf("%T:%#v", key, key)
}
