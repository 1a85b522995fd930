// Package codec converts cached values to and from bytes.
//
// slotcache uses a Codec in two places: FrozenSlot keeps the published value
// encoded so each hit decodes a private copy, and providerslot serializes the
// key and the value of the entry it writes to a byte store.
package codec

// Codec encodes/decodes values V to []byte.
// Decode must not retain b after it returns unless the result aliases it by
// design (Bytes); callers that need isolation copy b first.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
