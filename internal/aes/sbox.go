package aes

import "github.com/idelchi/gocrypt/internal/gf"

// sbox and invSbox are derived once from the field inverse and the FIPS-197 affine map.
//
//nolint:gochecknoglobals
var sbox, invSbox = newSBoxes()

func newSBoxes() (forward, inverse [256]byte) {
	for i := range 256 {
		b := gf.Inverse8(byte(i))
		s := b ^ rotl8(b, 1) ^ rotl8(b, 2) ^ rotl8(b, 3) ^ rotl8(b, 4) ^ 0x63

		forward[i] = s
		inverse[s] = byte(i)
	}

	return forward, inverse
}

func rotl8(b byte, n uint) byte {
	return b<<n | b>>(8-n)
}

// SubByte returns the S-box substitution of b.
func SubByte(b byte) byte {
	return sbox[b]
}

// InvSubByte returns the inverse S-box substitution of b.
func InvSubByte(b byte) byte {
	return invSbox[b]
}
