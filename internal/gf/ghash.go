package gf

import "encoding/binary"

// GHASH zero-pads data to a multiple of BlockSize and folds it block by block
// into y = (y + block) * h, starting from y = 0.
func GHASH(h Element, data []byte) Element {
	hash := NewHash(h)
	hash.Write(data) //nolint:errcheck // Hash.Write never fails

	return hash.Sum()
}

// Hash is the incremental form of GHASH. The zero value is not usable; use NewHash.
type Hash struct {
	h   Element
	y   Element
	buf [BlockSize]byte
	n   int
}

// NewHash returns a Hash keyed with h.
func NewHash(h Element) *Hash {
	return &Hash{h: h}
}

// Write absorbs p. Partial blocks are buffered until completed or padded.
func (g *Hash) Write(p []byte) (int, error) {
	written := len(p)

	if g.n > 0 {
		taken := copy(g.buf[g.n:], p)
		g.n += taken
		p = p[taken:]

		if g.n < BlockSize {
			return written, nil
		}

		g.fold(g.buf[:])
		g.n = 0
	}

	for len(p) >= BlockSize {
		g.fold(p[:BlockSize])
		p = p[BlockSize:]
	}

	g.n = copy(g.buf[:], p)

	return written, nil
}

// Pad completes a buffered partial block with zero bytes.
func (g *Hash) Pad() {
	if g.n == 0 {
		return
	}

	clear(g.buf[g.n:])
	g.fold(g.buf[:])
	g.n = 0
}

// WriteLengths pads and then absorbs the GCM length block:
// the bit lengths of the additional data and of the ciphertext, each as a big-endian uint64.
func (g *Hash) WriteLengths(aadBytes, ciphertextBytes uint64) {
	g.Pad()

	var block [BlockSize]byte

	binary.BigEndian.PutUint64(block[:8], aadBytes*8)
	binary.BigEndian.PutUint64(block[8:], ciphertextBytes*8)

	g.fold(block[:])
}

// Sum pads any buffered bytes and returns the accumulator.
func (g *Hash) Sum() Element {
	g.Pad()

	return g.y
}

func (g *Hash) fold(block []byte) {
	g.y = Mul(g.y.Xor(FromBytes(block)), g.h)
}
