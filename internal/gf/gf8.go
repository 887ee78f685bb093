// Package gf implements the finite-field arithmetic used by AES and GCM.
//
// GF(2^8) elements are bytes reduced modulo x^8+x^4+x^3+x+1 (0x11B).
// GF(2^128) elements follow the GCM bit order: the most significant bit of the
// first byte is the coefficient of x^0.
package gf

// aesPolynomial is x^8 + x^4 + x^3 + x + 1.
const aesPolynomial = 0x11B

// Mul8 multiplies a and b in GF(2^8).
//
// The carry-less product is formed first and then reduced from the top bit down,
// one aligned copy of the polynomial per set bit above x^7.
func Mul8(a, b byte) byte {
	var product uint16

	for i := range 8 {
		if b>>i&1 == 1 {
			product ^= uint16(a) << i
		}
	}

	for degree := 14; degree >= 8; degree-- {
		if product>>degree&1 == 1 {
			product ^= aesPolynomial << (degree - 8)
		}
	}

	return byte(product)
}

// Xtime multiplies a by x ({02}).
func Xtime(a byte) byte {
	return Mul8(a, 0x02)
}

// Inverse8 returns the multiplicative inverse of a, or 0 for a == 0.
// It computes a^254, since a^255 == 1 for every non-zero element.
func Inverse8(a byte) byte {
	result := byte(1)
	base := a

	for exp := 254; exp > 0; exp >>= 1 {
		if exp&1 == 1 {
			result = Mul8(result, base)
		}

		base = Mul8(base, base)
	}

	return result
}
