package slotcache

import (
	"errors"
	"fmt"
)

var (
	ErrNilCompute    = errors.New("slotcache: compute func is required")
	ErrUnknownPolicy = errors.New("slotcache: unknown policy")
	ErrCodecWithSlot = errors.New("slotcache: Codec applies to the local slot only; configure codecs on the custom Slot")

	// ErrCorruptEntry is returned by a Slot that found a stored entry it could
	// not decode. The slot drops the entry before returning.
	ErrCorruptEntry = errors.New("slotcache: corrupt entry")

	// ErrSlotRejected is returned by a Slot whose backend refused the write
	// (eviction pressure, admission policy). The previous entry may remain.
	ErrSlotRejected = errors.New("slotcache: slot rejected write")
)

// SlotError reports a failed slot operation. Lookup never returns it: a failed
// load degrades to a miss and a failed store leaves the computed value unpublished.
// It is handed to Logger and Hooks instead.
type SlotError struct {
	Cache string
	Op    string // "load" or "store"
	Err   error
}

func (e *SlotError) Error() string {
	switch {
	case e.Err == nil:
		return fmt.Sprintf("slotcache %q: slot %s: unknown error", e.Cache, e.Op)
	default:
		return fmt.Sprintf("slotcache %q: slot %s: %v", e.Cache, e.Op, e.Err)
	}
}

func (e *SlotError) Unwrap() error { return e.Err }

// Rejected reports whether the backend refused the write rather than failing.
func (e *SlotError) Rejected() bool { return errors.Is(e.Err, ErrSlotRejected) }
