package slotcache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on the Lookup path.
type Hooks interface {
	// Lookup found the requested key in the slot.
	Hit(cache string, gen uint64)

	// Lookup did not find the requested key and will compute.
	Miss(cache string)

	// Compute returned err. The slot was not touched.
	ComputeFailed(cache string, err error)

	// A new entry with generation gen was stored in the slot.
	Published(cache string, gen uint64)

	// The slot backend failed a load or a store.
	SlotError(err *SlotError)

	// The slot held an undecodable entry and dropped it.
	SelfHeal(cache string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Hit(string, uint64)          {}
func (NopHooks) Miss(string)                 {}
func (NopHooks) ComputeFailed(string, error) {}
func (NopHooks) Published(string, uint64)    {}
func (NopHooks) SlotError(*SlotError)        {}
func (NopHooks) SelfHeal(string, error)      {}
