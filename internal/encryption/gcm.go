package encryption

import (
	"crypto/subtle"
	"encoding/binary"

	"github.com/idelchi/gocrypt/internal/aes"
	"github.com/idelchi/gocrypt/internal/cryptoerr"
	"github.com/idelchi/gocrypt/internal/gf"
)

// gcm holds the per-message state shared by both directions:
// the counter block, the GHASH accumulator and the byte counts for the length block.
type gcm struct {
	block   *aes.Cipher
	j0      [aes.BlockSize]byte
	counter [aes.BlockSize]byte
	hash    *gf.Hash
	aadLen  uint64
	dataLen uint64
	stream  [aes.BlockSize]byte
}

// newGCM derives H = E(K, 0^128), sets J0 = nonce || 0^31 || 1 and absorbs the padded aad.
func newGCM(block *aes.Cipher, nonce, aad []byte) *gcm {
	var h [aes.BlockSize]byte

	block.Encrypt(h[:], h[:])

	g := &gcm{
		block:  block,
		hash:   gf.NewHash(gf.FromBytes(h[:])),
		aadLen: uint64(len(aad)),
	}

	copy(g.j0[:], nonce)
	g.j0[aes.BlockSize-1] = 1
	g.counter = g.j0

	g.hash.Write(aad) //nolint:errcheck // gf.Hash.Write never fails
	g.hash.Pad()

	return g
}

// keystream XORs src with successive encrypted counter blocks. The low 32 bits of
// the counter are incremented before each block and wrap modulo 2^32.
func (g *gcm) keystream(dst, src []byte) {
	for len(src) > 0 {
		ctr := binary.BigEndian.Uint32(g.counter[aes.BlockSize-4:])
		binary.BigEndian.PutUint32(g.counter[aes.BlockSize-4:], ctr+1)

		g.block.Encrypt(g.stream[:], g.counter[:])

		n := subtle.XORBytes(dst, src, g.stream[:])
		dst, src = dst[n:], src[n:]
	}
}

// tag computes GHASH(H, A, C) XOR E(K, J0).
func (g *gcm) tag() []byte {
	g.hash.WriteLengths(g.aadLen, g.dataLen)

	s := g.hash.Sum().Bytes()

	var mask [aes.BlockSize]byte

	g.block.Encrypt(mask[:], g.j0[:])
	subtle.XORBytes(s, s, mask[:])

	return s
}

type gcmSealer struct {
	*gcm

	sum []byte
}

func (s *gcmSealer) crypt(dst, src []byte) {
	s.keystream(dst, src)
	s.hash.Write(dst[:len(src)]) //nolint:errcheck
	s.dataLen += uint64(len(src))
}

func (s *gcmSealer) final(tail []byte) ([]byte, error) {
	out := make([]byte, len(tail))
	s.crypt(out, tail)

	s.sum = s.tag()

	return out, nil
}

type gcmOpener struct {
	*gcm

	expected []byte
}

func (o *gcmOpener) crypt(dst, src []byte) {
	o.hash.Write(src) //nolint:errcheck
	o.dataLen += uint64(len(src))
	o.keystream(dst, src)
}

func (o *gcmOpener) final(tail []byte) ([]byte, error) {
	out := make([]byte, len(tail))
	o.crypt(out, tail)

	if subtle.ConstantTimeCompare(o.tag(), o.expected) != 1 {
		return nil, cryptoerr.ErrVerification
	}

	return out, nil
}
