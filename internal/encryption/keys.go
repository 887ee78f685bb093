package encryption

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/idelchi/gogen/pkg/key"
	"github.com/idelchi/gocrypt/internal/aes"
	"github.com/idelchi/gocrypt/internal/cryptoerr"
)

// ErrKeyBits is returned for key sizes other than 128, 192 and 256 bits.
var ErrKeyBits = fmt.Errorf("%w: AES key size must be 128, 192 or 256 bits", cryptoerr.ErrConfiguration)

// ValidKeyBits reports whether bits is an AES key size.
func ValidKeyBits(bits int) bool {
	return bits%8 == 0 && aes.Rounds(bits/8) != 0
}

// GenerateKey returns a fresh random key of the given size in bits.
func GenerateKey(bits int) ([]byte, error) {
	if !ValidKeyBits(bits) {
		return nil, fmt.Errorf("%w: got %d", ErrKeyBits, bits)
	}

	raw, err := key.New(bits / 8)
	if err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}

	return raw, nil
}

// GenerateIV returns a fresh random IV (CBC) or nonce (GCM), or nil for ECB.
func GenerateIV(mode Mode) ([]byte, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownMode, mode)
	}

	size := mode.IVSize()
	if size == 0 {
		return nil, nil
	}

	iv := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("generating IV: %w", err)
	}

	return iv, nil
}
