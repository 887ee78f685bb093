package rsa

import (
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/idelchi/gocrypt/internal/cryptoerr"
)

const (
	// PublicExponent is the fixed public exponent e.
	PublicExponent = 65537
	// MinKeyBits is the smallest modulus GenerateKey accepts.
	MinKeyBits = 1024

	hashSize = sha256.Size
)

var (
	// ErrKeyBits is returned for modulus sizes GenerateKey does not support.
	ErrKeyBits = fmt.Errorf("%w: RSA key size must be an even number of bits, at least %d", cryptoerr.ErrConfiguration, MinKeyBits)
	// ErrKeyTooSmall is returned when the modulus cannot hold an OAEP block.
	ErrKeyTooSmall = fmt.Errorf("%w: modulus too small for OAEP with SHA-256", cryptoerr.ErrConfiguration)
	// ErrMessageTooLong is returned when a single block is handed more than ChunkSize bytes.
	ErrMessageTooLong = fmt.Errorf("%w: message too long for one OAEP block", cryptoerr.ErrInput)
	// ErrTruncated is returned when ciphertext is empty or not a whole number of blocks.
	ErrTruncated = fmt.Errorf("%w: truncated ciphertext block", cryptoerr.ErrInput)
	// ErrDecryption is the single failure reported for any block that does not decrypt and unpad.
	ErrDecryption = cryptoerr.ErrVerification
)

// PublicKey is the public half of a keypair.
type PublicKey struct {
	N *big.Int
	E int
}

// Size returns the modulus length k in bytes.
func (pub *PublicKey) Size() int {
	return (pub.N.BitLen() + 7) / 8
}

// ChunkSize returns the largest message one OAEP block carries: k - 2*hLen - 2.
func (pub *PublicKey) ChunkSize() int {
	return pub.Size() - 2*hashSize - 2
}

// Equal reports whether pub and other hold the same values.
func (pub *PublicKey) Equal(other *PublicKey) bool {
	return other != nil && pub.E == other.E && pub.N.Cmp(other.N) == 0
}

func (pub *PublicKey) check() error {
	if pub == nil || pub.N == nil || pub.N.Sign() <= 0 || pub.E < 3 || pub.E%2 == 0 {
		return fmt.Errorf("%w: malformed public key", cryptoerr.ErrConfiguration)
	}

	if pub.ChunkSize() <= 0 {
		return fmt.Errorf("%w: %d-bit modulus", ErrKeyTooSmall, pub.N.BitLen())
	}

	return nil
}

// PrivateKey is a keypair. Primes holds p and q when known; decryption only needs D.
type PrivateKey struct {
	PublicKey

	D      *big.Int
	Primes []*big.Int
}

// Public returns the public half.
func (priv *PrivateKey) Public() *PublicKey {
	return &priv.PublicKey
}

// Validate checks the key's ranges and, when the primes are present,
// that n is their product and e*d = 1 mod p-1 for every prime p.
func (priv *PrivateKey) Validate() error {
	if err := priv.PublicKey.check(); err != nil {
		return err
	}

	if priv.D == nil || priv.D.Sign() <= 0 || priv.D.Cmp(priv.N) >= 0 {
		return fmt.Errorf("%w: private exponent out of range", cryptoerr.ErrConfiguration)
	}

	if len(priv.Primes) == 0 {
		return nil
	}

	product := big.NewInt(1)
	ed := new(big.Int).Mul(priv.D, big.NewInt(int64(priv.E)))
	residue := new(big.Int)

	for _, p := range priv.Primes {
		product.Mul(product, p)

		pMinus1 := new(big.Int).Sub(p, bigOne)
		if residue.Mod(ed, pMinus1).Cmp(bigOne) != 0 {
			return fmt.Errorf("%w: private exponent does not invert e", cryptoerr.ErrConfiguration)
		}
	}

	if product.Cmp(priv.N) != 0 {
		return fmt.Errorf("%w: modulus is not the product of the primes", cryptoerr.ErrConfiguration)
	}

	return nil
}

//nolint:gochecknoglobals
var bigOne = big.NewInt(1)
