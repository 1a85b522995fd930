package wire

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func mustDecode(t *testing.T, b []byte) Entry {
	t.Helper()
	e, err := DecodeEntry(b)
	if err != nil {
		t.Fatalf("DecodeEntry error: %v", err)
	}
	return e
}

func mustEncode(t *testing.T, gen uint64, key, value []byte) []byte {
	t.Helper()
	b, err := EncodeEntry(gen, key, value)
	if err != nil {
		t.Fatalf("EncodeEntry error: %v", err)
	}
	return b
}

func TestEntryEmptyAndNonEmpty(t *testing.T) {
	cases := []struct {
		gen        uint64
		key, value []byte
	}{
		{0, nil, nil},
		{1, []byte("4"), []byte("[2,2]")},
		{math.MaxUint64, []byte{0}, []byte{0, 1, 2, 3, 4}},
		{7, []byte("k"), nil},
	}
	for _, tc := range cases {
		e := mustDecode(t, mustEncode(t, tc.gen, tc.key, tc.value))
		if e.Gen != tc.gen {
			t.Fatalf("gen mismatch: got %d want %d", e.Gen, tc.gen)
		}
		if !bytes.Equal(e.Key, tc.key) || !bytes.Equal(e.Value, tc.value) {
			t.Fatalf("payload mismatch: got %q/%q want %q/%q", e.Key, e.Value, tc.key, tc.value)
		}
	}
}

func TestRejectsTrailingBytes(t *testing.T) {
	enc := mustEncode(t, 7, []byte("k"), []byte("v"))
	enc = append(enc, 0xDE, 0xAD)
	if _, err := DecodeEntry(enc); err == nil {
		t.Fatalf("expected error on trailing bytes")
	}
}

func TestCorruptHeadersAndLengths(t *testing.T) {
	enc := mustEncode(t, 1, []byte("key"), []byte("abc"))

	badMagic := append([]byte(nil), enc...)
	badMagic[0] = 'X'
	if _, err := DecodeEntry(badMagic); err == nil {
		t.Fatalf("expected error on bad magic")
	}

	badVer := append([]byte(nil), enc...)
	badVer[4] = version + 1
	if _, err := DecodeEntry(badVer); err == nil {
		t.Fatalf("expected error on bad version")
	}

	// klen at offset 13..16 (4 magic +1 ver +8 gen)
	hugeKey := append([]byte(nil), enc...)
	binary.BigEndian.PutUint32(hugeKey[13:17], math.MaxUint32)
	if _, err := DecodeEntry(hugeKey); err == nil {
		t.Fatalf("expected error on klen beyond buffer")
	}

	// key length covering the vlen field leaves no room for it
	noVlen := append([]byte(nil), enc...)
	binary.BigEndian.PutUint32(noVlen[13:17], uint32(len(enc)-hdrLen))
	if _, err := DecodeEntry(noVlen); err == nil {
		t.Fatalf("expected error when vlen is missing")
	}

	for i := 0; i < len(enc); i++ {
		if _, err := DecodeEntry(enc[:i]); err == nil {
			t.Fatalf("expected error on truncation at %d", i)
		}
	}
}

func TestDecodeAliasesInput(t *testing.T) {
	enc := mustEncode(t, 1, []byte("k"), []byte("Z"))
	e := mustDecode(t, enc)
	e.Value[0] = 'Q'
	if mustDecode(t, enc).Value[0] != 'Q' {
		t.Fatalf("expected zero-copy slice into enc buffer")
	}
}

// Lengths with the high bit set must be rejected, not wrap negative on 32-bit.
func TestRejectsHighBitLengths(t *testing.T) {
	enc := mustEncode(t, 1, []byte("key"), []byte("abc"))

	highKey := append([]byte(nil), enc...)
	binary.BigEndian.PutUint32(highKey[13:17], 1<<31)
	if _, err := DecodeEntry(highKey); err != ErrCorrupt {
		t.Fatalf("klen 1<<31: expected ErrCorrupt, got %v", err)
	}

	// vlen sits after the 3-byte key
	highVal := append([]byte(nil), enc...)
	binary.BigEndian.PutUint32(highVal[20:24], 1<<31|3)
	if _, err := DecodeEntry(highVal); err != ErrCorrupt {
		t.Fatalf("vlen 1<<31|3: expected ErrCorrupt, got %v", err)
	}
}
