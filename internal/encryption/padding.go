package encryption

import (
	"bytes"
	"crypto/subtle"

	"github.com/idelchi/gocrypt/internal/aes"
	"github.com/idelchi/gocrypt/internal/cryptoerr"
)

// pkcs7Pad adds PKCS#7 padding to the data to make it a multiple of blockSize.
// Aligned input receives a full block of padding.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padText := bytes.Repeat([]byte{byte(padding)}, padding)

	return append(data[:len(data):len(data)], padText...)
}

// pkcs7Unpad removes PKCS#7 padding from a final block.
// Every malformed padding is reported as the same verification failure,
// and the padding bytes are inspected without data-dependent branches.
func pkcs7Unpad(data []byte) ([]byte, error) {
	length := len(data)
	if length == 0 || length%aes.BlockSize != 0 {
		return nil, ErrInvalidBlockSize
	}

	padding := int(data[length-1])

	good := subtle.ConstantTimeLessOrEq(1, padding) & subtle.ConstantTimeLessOrEq(padding, aes.BlockSize)

	for i := 1; i <= aes.BlockSize; i++ {
		inPadding := subtle.ConstantTimeLessOrEq(i, padding)
		matches := subtle.ConstantTimeByteEq(data[length-i], byte(padding))
		good &= subtle.ConstantTimeSelect(inPadding, matches, 1)
	}

	if good != 1 {
		return nil, cryptoerr.ErrVerification
	}

	return data[:length-padding], nil
}
