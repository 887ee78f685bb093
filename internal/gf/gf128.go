package gf

import "encoding/binary"

// BlockSize is the size in bytes of a GF(2^128) element.
const BlockSize = 16

// r is the GCM reduction constant: 11100001 followed by 120 zero bits.
const r = 0xe1 << 56

// Element is a GF(2^128) element held as two big-endian halves.
type Element struct {
	Hi uint64
	Lo uint64
}

// One is the multiplicative identity in GCM bit order.
var One = Element{Hi: 1 << 63} //nolint:gochecknoglobals

// FromBytes loads a 16-byte block. It panics if b is shorter than BlockSize.
func FromBytes(b []byte) Element {
	return Element{
		Hi: binary.BigEndian.Uint64(b[:8]),
		Lo: binary.BigEndian.Uint64(b[8:BlockSize]),
	}
}

// Bytes returns the element as a 16-byte block.
func (e Element) Bytes() []byte {
	out := make([]byte, BlockSize)
	e.Put(out)

	return out
}

// Put stores the element into dst, which must hold at least BlockSize bytes.
func (e Element) Put(dst []byte) {
	binary.BigEndian.PutUint64(dst[:8], e.Hi)
	binary.BigEndian.PutUint64(dst[8:BlockSize], e.Lo)
}

// Xor returns e + o.
func (e Element) Xor(o Element) Element {
	return Element{Hi: e.Hi ^ o.Hi, Lo: e.Lo ^ o.Lo}
}

// IsZero reports whether e is the zero element.
func (e Element) IsZero() bool {
	return e.Hi == 0 && e.Lo == 0
}

// Mul multiplies x and y in GF(2^128) modulo x^128 + x^7 + x^2 + x + 1.
//
// Bits of y are scanned from the most significant end. Each set bit adds the
// running value of x to the accumulator, and x is multiplied by the field
// generator by a right shift with conditional reduction. Masks replace branches
// so the running time does not depend on the operands.
func Mul(x, y Element) Element {
	var z Element

	v := x

	for i := range 128 {
		var bit uint64
		if i < 64 {
			bit = y.Hi >> (63 - i) & 1
		} else {
			bit = y.Lo >> (127 - i) & 1
		}

		mask := -bit
		z.Hi ^= v.Hi & mask
		z.Lo ^= v.Lo & mask

		carry := v.Lo & 1
		v.Lo = v.Lo>>1 | v.Hi<<63
		v.Hi = v.Hi>>1 ^ r&-carry
	}

	return z
}
