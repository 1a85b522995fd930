package codec

import "encoding/json"

// JSON is a Codec backed by encoding/json. The zero value is ready to use.
// Numbers decode back into the declared Go type, so []uint64 round-trips exactly.
type JSON[V any] struct{}

var _ Codec[[]uint64] = JSON[[]uint64]{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
