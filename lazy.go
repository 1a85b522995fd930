package slotcache

import "sync"

// Lazy returns a getter that builds the cache on first use, exactly once,
// no matter how many goroutines race on the first call. Every call returns the
// same Cache (or the same construction error).
//
//	var factors = slotcache.Lazy(slotcache.Options[uint64, []uint64]{Compute: factorize})
//
//	func handle(ctx context.Context, n uint64) ([]uint64, error) {
//	    c, err := factors()
//	    if err != nil {
//	        return nil, err
//	    }
//	    return c.Lookup(ctx, n)
//	}
func Lazy[K comparable, V any](opts Options[K, V]) func() (Cache[K, V], error) {
	return sync.OnceValues(func() (Cache[K, V], error) {
		return New[K, V](opts)
	})
}
