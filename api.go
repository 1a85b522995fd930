package slotcache

import (
	"context"

	c "github.com/unkn0wn-root/slotcache/codec"
)

// ComputeFunc produces the value for key. It must be a pure function of key:
// the cache may call it more than once for the same key and keeps whichever
// result it published last.
type ComputeFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

// ValidateFunc normalizes or rejects a key before it reaches the cache.
type ValidateFunc[K comparable] func(key K) (K, error)

// Memo is an alias for Cache.
type Memo[K comparable, V any] = Cache[K, V]

// Cache is a single-slot memoizing cache. All methods are safe for concurrent use.
type Cache[K comparable, V any] interface {
	Enabled() bool
	Close(context.Context) error

	// Lookup returns the cached value when the stored key equals key,
	// otherwise computes, publishes and returns a fresh value.
	// Errors from Compute (and Validate) are returned unchanged.
	Lookup(ctx context.Context, key K) (V, error)

	// RequestCount is the number of Lookup calls that reached the cache, hits
	// and misses alike. Calls whose key Options.Validate rejected are not counted.
	RequestCount() uint64

	// Peek returns the currently published entry without counting a request.
	Peek(ctx context.Context) (Entry[K, V], bool)

	Stats() Stats
}

// Stats is a point-in-time snapshot of the cache counters.
// Fields are read independently, so a snapshot taken under load may show
// Hits+Misses lagging Requests by the number of in-flight lookups.
type Stats struct {
	Requests        uint64
	Hits            uint64
	Misses          uint64
	ComputeFailures uint64
	Publishes       uint64
}

// Options configure a Cache. Only Compute is required.
type Options[K comparable, V any] struct {
	// Required
	Compute ComputeFunc[K, V]

	Name     string          // label for logs, hooks and metrics; "" => "default"
	Validate ValidateFunc[K] // optional pre-lookup step; failures are not counted
	Policy   Policy          // zero => PolicyOptimistic
	Slot     Slot[K, V]      // nil => local atomic slot
	Codec    c.Codec[V]      // local slot only: freeze published values as bytes
	Logger   Logger          // nil => NopLogger
	Hooks    Hooks           // nil => NopHooks
	Disabled bool            // default false; when true every lookup computes
}

func New[K comparable, V any](opts Options[K, V]) (Cache[K, V], error) {
	impl, err := newCache[K, V](opts)
	if err != nil {
		return nil, err // keep the interface nil, not a typed nil *cache
	}
	return impl, nil
}
