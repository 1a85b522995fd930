// Package promhooks exports slotcache events as Prometheus counters.
package promhooks

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/unkn0wn-root/slotcache"
)

// Hooks holds the counters; every series is labelled with the cache name.
type Hooks struct {
	Lookups         *prometheus.CounterVec // cache, result=hit|miss
	ComputeFailures *prometheus.CounterVec
	Publishes       *prometheus.CounterVec
	SlotErrors      *prometheus.CounterVec // cache, op=load|store
	SelfHeals       *prometheus.CounterVec
}

var _ slotcache.Hooks = (*Hooks)(nil)

// New registers the counters on reg (prometheus.DefaultRegisterer when nil).
// It panics if they are already registered, like promauto.
func New(reg prometheus.Registerer, namespace string) *Hooks {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Hooks{
		Lookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "slotcache",
			Name:      "lookups_total",
			Help:      "Lookups by outcome of the slot check",
		}, []string{"cache", "result"}),
		ComputeFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "slotcache",
			Name:      "compute_failures_total",
			Help:      "Compute calls that returned an error",
		}, []string{"cache"}),
		Publishes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "slotcache",
			Name:      "publishes_total",
			Help:      "Entries stored in the slot",
		}, []string{"cache"}),
		SlotErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "slotcache",
			Name:      "slot_errors_total",
			Help:      "Slot backend failures by operation",
		}, []string{"cache", "op"}),
		SelfHeals: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "slotcache",
			Name:      "self_heals_total",
			Help:      "Undecodable entries dropped from the slot",
		}, []string{"cache"}),
	}
}

func (h *Hooks) Hit(cache string, _ uint64)          { h.Lookups.WithLabelValues(cache, "hit").Inc() }
func (h *Hooks) Miss(cache string)                   { h.Lookups.WithLabelValues(cache, "miss").Inc() }
func (h *Hooks) ComputeFailed(cache string, _ error) { h.ComputeFailures.WithLabelValues(cache).Inc() }
func (h *Hooks) Published(cache string, _ uint64)    { h.Publishes.WithLabelValues(cache).Inc() }
func (h *Hooks) SelfHeal(cache string, _ error)      { h.SelfHeals.WithLabelValues(cache).Inc() }

func (h *Hooks) SlotError(err *slotcache.SlotError) {
	if err == nil {
		return
	}
	h.SlotErrors.WithLabelValues(err.Cache, err.Op).Inc()
}

// RequestCounter is the part of a cache RegisterRequestCount reads.
type RequestCounter interface {
	RequestCount() uint64
}

// RegisterRequestCount exposes src.RequestCount() as
// <namespace>_slotcache_requests_total{cache=name}. The value is read at
// scrape time, so it always matches what the cache reports.
func RegisterRequestCount(reg prometheus.Registerer, namespace, name string, src RequestCounter) (prometheus.CounterFunc, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	cf := prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   "slotcache",
		Name:        "requests_total",
		Help:        "Lookups answered by the cache, hits and misses alike",
		ConstLabels: prometheus.Labels{"cache": name},
	}, func() float64 { return float64(src.RequestCount()) })
	if err := reg.Register(cf); err != nil {
		return nil, err
	}
	return cf, nil
}
