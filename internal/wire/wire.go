package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	version byte = 1
	hdrLen       = 4 + 1 + 8 + 4 // magic | ver | gen | klen
)

var (
	ErrCorrupt = errors.New("slotcache: corrupt frame")
	magic4     = [...]byte{'S', 'L', 'O', 'T'}
)

// Entry is a decoded frame. Key and Value alias the input buffer.
type Entry struct {
	Gen   uint64
	Key   []byte
	Value []byte
}

// EncodeEntry frames one slot entry:
//
//	magic(4) | ver(1) | gen(u64 be) | klen(u32 be) | key(klen) | vlen(u32 be) | value(vlen)
//
// Key and value travel in one buffer so a single store write publishes both.
func EncodeEntry(gen uint64, key, value []byte) ([]byte, error) {
	if uint64(len(key)) > math.MaxUint32 || uint64(len(value)) > math.MaxUint32 {
		return nil, fmt.Errorf("wire: entry too large (key=%d value=%d)", len(key), len(value))
	}
	var buf bytes.Buffer
	buf.Grow(hdrLen + len(key) + 4 + len(value))

	buf.Write(magic4[:])
	buf.WriteByte(version)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], gen)
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(key)))
	buf.Write(u4[:])
	buf.Write(key)

	binary.BigEndian.PutUint32(u4[:], uint32(len(value)))
	buf.Write(u4[:])
	buf.Write(value)

	return buf.Bytes(), nil
}

// DecodeEntry parses a frame produced by EncodeEntry. Framing is strict:
// bad magic/version, truncated lengths or trailing bytes are ErrCorrupt.
func DecodeEntry(b []byte) (Entry, error) {
	if len(b) < hdrLen || !bytes.Equal(b[:4], magic4[:]) || b[4] != version {
		return Entry{}, ErrCorrupt
	}
	off := 5

	gen := binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	klen32 := binary.BigEndian.Uint32(b[off : off+4])
	off += 4
	if uint64(klen32) > uint64(len(b)-off) { // compare before int conversion (32-bit)
		return Entry{}, ErrCorrupt
	}
	klen := int(klen32)
	key := b[off : off+klen]
	off += klen

	if off+4 > len(b) {
		return Entry{}, ErrCorrupt
	}
	vlen := binary.BigEndian.Uint32(b[off : off+4])
	off += 4
	if uint64(vlen) != uint64(len(b)-off) {
		return Entry{}, ErrCorrupt
	}

	return Entry{Gen: gen, Key: key, Value: b[off:]}, nil
}
