package codec

// Bytes is an identity codec for []byte values. Encode/Decode return the
// input unchanged; FrozenSlot copies around it, so identity is still safe there.
type Bytes struct{}

func (Bytes) Encode(b []byte) ([]byte, error) { return b, nil }
func (Bytes) Decode(b []byte) ([]byte, error) { return b, nil }

// String is a trivial codec for Go string values, typically used as the key
// codec of a providerslot. It assumes UTF-8 and performs no validation.
type String struct{}

func (String) Encode(s string) ([]byte, error) { return []byte(s), nil }
func (String) Decode(b []byte) (string, error) { return string(b), nil }
