// Package slotcache implements a concurrent single-entry memoizing cache.
// The cache remembers the last (key, value) pair produced by a pure compute
// function and returns it again while callers keep asking for the same key.
// The pair is published as one immutable Entry, so readers never see a key
// paired with a value computed for another key.
//
// Components:
//   - Cache[K, V]: Lookup (get-or-compute) plus a request counter and stats.
//   - Slot[K, V]: holds at most one Entry. Local atomic slot by default, a
//     codec-frozen local slot when Options.Codec is set, or providerslot for a
//     byte store (Ristretto, BigCache, Redis).
//   - Policy: how concurrent misses behave (optimistic, exclusive, coalesce).
//
// Lookup:
//
//	requests++                       // always, hit or miss
//	e := slot.Load()                 // one atomic read
//	if e.Key == key { return e.Value }
//	v, err := compute(ctx, key)      // no cache lock held (optimistic)
//	slot.Store(Entry{key, v, gen})   // one atomic publish, last writer wins
//
// Compute errors are returned unchanged and leave the slot as it was.
package slotcache
