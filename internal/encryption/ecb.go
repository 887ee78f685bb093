package encryption

import "github.com/idelchi/gocrypt/internal/aes"

type ecbEncrypter struct {
	block *aes.Cipher
}

func (e *ecbEncrypter) crypt(dst, src []byte) {
	for i := 0; i < len(src); i += aes.BlockSize {
		e.block.Encrypt(dst[i:i+aes.BlockSize], src[i:i+aes.BlockSize])
	}
}

func (e *ecbEncrypter) final(tail []byte) ([]byte, error) {
	padded := pkcs7Pad(tail, aes.BlockSize)
	e.crypt(padded, padded)

	return padded, nil
}

type ecbDecrypter struct {
	block *aes.Cipher
}

func (d *ecbDecrypter) crypt(dst, src []byte) {
	for i := 0; i < len(src); i += aes.BlockSize {
		d.block.Decrypt(dst[i:i+aes.BlockSize], src[i:i+aes.BlockSize])
	}
}

func (d *ecbDecrypter) final(tail []byte) ([]byte, error) {
	if len(tail) != aes.BlockSize {
		return nil, ErrInvalidBlockSize
	}

	last := make([]byte, aes.BlockSize)
	d.crypt(last, tail)

	return pkcs7Unpad(last)
}
