// Package sloghooks reports slotcache events through log/slog.
package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/slotcache"
)

type Options struct {
	// Sampling to avoid floods on the hot path; 0/1 = log all.
	HitEvery      uint64
	MissEvery     uint64
	PublishEvery  uint64
	SelfHealEvery uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	hitCtr      atomic.Uint64
	missCtr     atomic.Uint64
	publishCtr  atomic.Uint64
	selfHealCtr atomic.Uint64
}

var _ slotcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Hit(cache string, gen uint64) {
	if h.l == nil || !sample(h.opts.HitEvery, &h.hitCtr) {
		return
	}
	h.l.Debug("slotcache.hit", "cache", cache, "gen", gen)
}

func (h *Hooks) Miss(cache string) {
	if h.l == nil || !sample(h.opts.MissEvery, &h.missCtr) {
		return
	}
	h.l.Debug("slotcache.miss", "cache", cache)
}

func (h *Hooks) Published(cache string, gen uint64) {
	if h.l == nil || !sample(h.opts.PublishEvery, &h.publishCtr) {
		return
	}
	h.l.Debug("slotcache.published", "cache", cache, "gen", gen)
}

func (h *Hooks) ComputeFailed(cache string, err error) {
	if h.l == nil {
		return
	}
	h.l.Info("slotcache.compute_failed",
		"cache", cache,
		"err", err)
}

func (h *Hooks) SelfHeal(cache string, err error) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("slotcache.self_heal",
		"cache", cache,
		"reason", err)
}

func (h *Hooks) SlotError(err *slotcache.SlotError) {
	if h.l == nil || err == nil {
		return
	}
	if err.Rejected() {
		h.l.Info("slotcache.slot_rejected",
			"cache", err.Cache,
			"op", err.Op)
		return
	}
	h.l.Warn("slotcache.slot_error",
		"cache", err.Cache,
		"op", err.Op,
		"err", err.Err)
}
