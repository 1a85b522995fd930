package codec

import "google.golang.org/protobuf/proto"

// Protobuf is a Codec for generated message types. Decode allocates a fresh
// message via the constructor, so decoded values never share state with the
// message that was encoded.
type Protobuf[T proto.Message] struct {
	new func() T // e.g. func() *wrapperspb.UInt64Value { return &wrapperspb.UInt64Value{} }
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	// deterministic output keeps equal messages byte-equal in a shared slot
	return proto.MarshalOptions{Deterministic: true}.Marshal(v)
}

func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}
