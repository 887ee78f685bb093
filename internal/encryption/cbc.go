package encryption

import (
	"crypto/subtle"

	"github.com/idelchi/gocrypt/internal/aes"
)

// cbcEncrypter XORs each plaintext block with the previous ciphertext block
// (the IV for the first) before encrypting it.
type cbcEncrypter struct {
	block *aes.Cipher
	prev  [aes.BlockSize]byte
}

func newCBCEncrypter(block *aes.Cipher, iv []byte) *cbcEncrypter {
	enc := &cbcEncrypter{block: block}
	copy(enc.prev[:], iv)

	return enc
}

func (e *cbcEncrypter) crypt(dst, src []byte) {
	for i := 0; i < len(src); i += aes.BlockSize {
		out := dst[i : i+aes.BlockSize]

		subtle.XORBytes(out, src[i:i+aes.BlockSize], e.prev[:])
		e.block.Encrypt(out, out)
		copy(e.prev[:], out)
	}
}

func (e *cbcEncrypter) final(tail []byte) ([]byte, error) {
	padded := pkcs7Pad(tail, aes.BlockSize)
	e.crypt(padded, padded)

	return padded, nil
}

type cbcDecrypter struct {
	block *aes.Cipher
	prev  [aes.BlockSize]byte
}

func newCBCDecrypter(block *aes.Cipher, iv []byte) *cbcDecrypter {
	dec := &cbcDecrypter{block: block}
	copy(dec.prev[:], iv)

	return dec
}

func (d *cbcDecrypter) crypt(dst, src []byte) {
	for i := 0; i < len(src); i += aes.BlockSize {
		in, out := src[i:i+aes.BlockSize], dst[i:i+aes.BlockSize]

		d.block.Decrypt(out, in)
		subtle.XORBytes(out, out, d.prev[:])
		copy(d.prev[:], in)
	}
}

func (d *cbcDecrypter) final(tail []byte) ([]byte, error) {
	if len(tail) != aes.BlockSize {
		return nil, ErrInvalidBlockSize
	}

	last := make([]byte, aes.BlockSize)
	d.crypt(last, tail)

	return pkcs7Unpad(last)
}
