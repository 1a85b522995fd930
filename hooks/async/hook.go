// Package asynchook moves slotcache hook delivery off the Lookup path.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    HitEvery: 100, // ~every 100th hit
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	cache, _ := slotcache.New(slotcache.Options[uint64, []uint64]{
//	    Name:    "factors",
//	    Compute: factorize,
//	    Hooks:   hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/slotcache"
)

// Hooks queues events for inner and delivers them on worker goroutines.
// When the queue is full the event is dropped and counted.
type Hooks struct {
	inner   slotcache.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex // guards closed against sends on a closed q
	closed  bool
	dropped atomic.Uint64
}

var _ slotcache.Hooks = (*Hooks)(nil)

func New(inner slotcache.Hooks, workers, qlen int) *Hooks {
	if inner == nil {
		inner = slotcache.NopHooks{}
	}
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Events after Close are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped reports how many events were discarded.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default: // drop
		h.dropped.Add(1)
	}
}

func (h *Hooks) Hit(c string, gen uint64)       { h.try(func() { h.inner.Hit(c, gen) }) }
func (h *Hooks) Miss(c string)                  { h.try(func() { h.inner.Miss(c) }) }
func (h *Hooks) Published(c string, gen uint64) { h.try(func() { h.inner.Published(c, gen) }) }
func (h *Hooks) SelfHeal(c string, err error)   { h.try(func() { h.inner.SelfHeal(c, err) }) }
func (h *Hooks) SlotError(err *slotcache.SlotError) {
	h.try(func() { h.inner.SlotError(err) })
}
func (h *Hooks) ComputeFailed(c string, err error) {
	h.try(func() { h.inner.ComputeFailed(c, err) })
}
