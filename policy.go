package slotcache

import "strconv"

// Policy decides what concurrent misses do while compute runs.
type Policy uint8

const (
	// PolicyOptimistic runs compute with no lock held. Concurrent misses may
	// compute the same key more than once; the last publish wins. Default.
	PolicyOptimistic Policy = iota

	// PolicyExclusive holds one mutex across the slot check, compute and
	// publish. At most one compute runs at a time and callers queue behind it,
	// including callers asking for unrelated keys.
	PolicyExclusive

	// PolicyCoalesce lets concurrent misses on the same key share a single
	// in-flight compute (singleflight). Misses on other keys are not blocked.
	// The shared compute runs detached from caller cancellation (it keeps the
	// starting caller's context values); each caller stops waiting when its
	// own context ends and gets its own ctx.Err().
	PolicyCoalesce
)

func (p Policy) String() string {
	switch p {
	case PolicyOptimistic:
		return "optimistic"
	case PolicyExclusive:
		return "exclusive"
	case PolicyCoalesce:
		return "coalesce"
	default:
		return "policy(" + strconv.Itoa(int(p)) + ")"
	}
}

func (p Policy) valid() bool { return p <= PolicyCoalesce }
