// Package dispatch is the single entry point to the ciphers: it maps an
// algorithm, key size and mode to an encryption or decryption call.
package dispatch

import (
	"context"
	"crypto/rand"
	"fmt"
	"strconv"
	"strings"

	"github.com/idelchi/gocrypt/internal/cryptoerr"
	"github.com/idelchi/gocrypt/internal/encryption"
	"github.com/idelchi/gocrypt/internal/rsa"
)

// Algorithm names a cipher family.
type Algorithm string

const (
	// AES with one of the ECB, CBC or GCM modes.
	AES Algorithm = "aes"
	// RSA with OAEP-SHA256 padding.
	RSA Algorithm = "rsa"
)

// DefaultRSABits is the modulus size used when an RSA configuration names none.
const DefaultRSABits = 2048

// ErrUnsupported is returned for any algorithm, key size and mode combination
// that does not name an operation.
var ErrUnsupported = fmt.Errorf("%w: unsupported algorithm, key size or mode", cryptoerr.ErrConfiguration)

// Config selects an operation.
type Config struct {
	Algorithm Algorithm
	KeyBits   int
	// Mode is only meaningful for AES.
	Mode encryption.Mode
}

// String renders the configuration in the form Parse accepts.
func (c Config) String() string {
	if c.Algorithm == AES {
		return fmt.Sprintf("AES-%d-%s", c.KeyBits, c.Mode)
	}

	return fmt.Sprintf("RSA-%d", c.KeyBits)
}

// Validate rejects combinations no operation serves.
func (c Config) Validate() error {
	switch c.Algorithm {
	case AES:
		if !encryption.ValidKeyBits(c.KeyBits) {
			return fmt.Errorf("%w: AES with %d-bit key", ErrUnsupported, c.KeyBits)
		}

		if !c.Mode.Valid() {
			return fmt.Errorf("%w: AES mode %v", ErrUnsupported, c.Mode)
		}
	case RSA:
		if c.KeyBits < rsa.MinKeyBits || c.KeyBits%2 != 0 {
			return fmt.Errorf("%w: RSA with %d-bit modulus", ErrUnsupported, c.KeyBits)
		}

		if c.Mode != 0 {
			return fmt.Errorf("%w: RSA takes no mode, got %v", ErrUnsupported, c.Mode)
		}
	default:
		return fmt.Errorf("%w: algorithm %q", ErrUnsupported, c.Algorithm)
	}

	return nil
}

// Parse builds a Config from a name and key size. Names are case-insensitive,
// separated by '-', '_' or '/', and take the forms "aes-gcm", "aes-128-cbc",
// "AES_ECB", "rsa", "rsa-4096" and "RSA_encrypt". A size in the name overrides
// keyBits; with neither, AES uses 256 bits and RSA DefaultRSABits.
func Parse(name string, keyBits int) (Config, error) {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == '-' || r == '_' || r == '/'
	})

	if len(fields) == 0 {
		return Config{}, fmt.Errorf("%w: empty algorithm name", ErrUnsupported)
	}

	cfg := Config{Algorithm: Algorithm(fields[0]), KeyBits: keyBits}
	rest := fields[1:]

	if len(rest) > 0 {
		if bits, err := strconv.Atoi(rest[0]); err == nil {
			cfg.KeyBits = bits
			rest = rest[1:]
		}
	}

	switch cfg.Algorithm {
	case AES:
		if len(rest) != 1 {
			return Config{}, fmt.Errorf("%w: %q needs exactly one mode", ErrUnsupported, name)
		}

		mode, err := encryption.ParseMode(rest[0])
		if err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrUnsupported, err)
		}

		cfg.Mode = mode

		if cfg.KeyBits == 0 {
			cfg.KeyBits = 256
		}
	case RSA:
		if len(rest) > 1 || (len(rest) == 1 && rest[0] != "encrypt") {
			return Config{}, fmt.Errorf("%w: %q", ErrUnsupported, name)
		}

		if cfg.KeyBits == 0 {
			cfg.KeyBits = DefaultRSABits
		}
	default:
		return Config{}, fmt.Errorf("%w: algorithm %q", ErrUnsupported, fields[0])
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// AESEncrypt encrypts plaintext under a freshly generated key and IV or nonce.
// The result carries the ciphertext, the key, the IV (CBC, GCM) and the tag (GCM).
func AESEncrypt(plaintext []byte, keyBits int, mode encryption.Mode, aad []byte) (*encryption.Result, error) {
	if err := (Config{Algorithm: AES, KeyBits: keyBits, Mode: mode}).Validate(); err != nil {
		return nil, err
	}

	key, err := encryption.GenerateKey(keyBits)
	if err != nil {
		return nil, err
	}

	iv, err := encryption.GenerateIV(mode)
	if err != nil {
		return nil, err
	}

	processor, err := encryption.NewProcessor(mode, key, iv, aad)
	if err != nil {
		return nil, err
	}

	ciphertext, tag, err := processor.Seal(plaintext)
	if err != nil {
		return nil, fmt.Errorf("encrypting: %w", err)
	}

	return &encryption.Result{Ciphertext: ciphertext, Key: key, IV: iv, Tag: tag}, nil
}

// AESDecrypt reverses AESEncrypt.
func AESDecrypt(ciphertext []byte, mode encryption.Mode, key, iv, tag, aad []byte) ([]byte, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: AES mode %v", ErrUnsupported, mode)
	}

	processor, err := encryption.NewProcessor(mode, key, iv, aad)
	if err != nil {
		return nil, err
	}

	return processor.Open(ciphertext, tag)
}

// RSAGenerateKeypair returns a fresh keypair with a modulus of bits bits.
func RSAGenerateKeypair(ctx context.Context, bits int) (*rsa.PrivateKey, error) {
	if err := (Config{Algorithm: RSA, KeyBits: bits}).Validate(); err != nil {
		return nil, err
	}

	return rsa.GenerateKey(ctx, bits)
}

// RSAEncrypt encrypts plaintext of any length in OAEP chunks.
func RSAEncrypt(plaintext []byte, pub *rsa.PublicKey) ([]byte, error) {
	return rsa.Encrypt(rand.Reader, pub, plaintext)
}

// RSADecrypt reverses RSAEncrypt. Malformed input or a mismatched key yields
// cryptoerr.ErrVerification or cryptoerr.ErrInput, never partial plaintext.
func RSADecrypt(ciphertext []byte, priv *rsa.PrivateKey) ([]byte, error) {
	return rsa.Decrypt(rand.Reader, priv, ciphertext)
}

// Output is what Run returns. Fields an operation does not produce are nil.
type Output struct {
	Ciphertext []byte
	Key        []byte
	IV         []byte
	Tag        []byte
	// PrivateKey is the keypair generated for an RSA run.
	PrivateKey *rsa.PrivateKey
}

// Run executes the encryption cfg names: ECB yields ciphertext and key, CBC adds
// the IV, GCM adds the tag, and RSA generates a keypair and returns it with the ciphertext.
func Run(ctx context.Context, cfg Config, plaintext, aad []byte) (*Output, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Algorithm {
	case AES:
		result, err := AESEncrypt(plaintext, cfg.KeyBits, cfg.Mode, aad)
		if err != nil {
			return nil, err
		}

		return &Output{Ciphertext: result.Ciphertext, Key: result.Key, IV: result.IV, Tag: result.Tag}, nil
	default:
		if len(aad) > 0 {
			return nil, fmt.Errorf("%w: RSA takes no additional data", ErrUnsupported)
		}

		priv, err := RSAGenerateKeypair(ctx, cfg.KeyBits)
		if err != nil {
			return nil, err
		}

		ciphertext, err := RSAEncrypt(plaintext, priv.Public())
		if err != nil {
			return nil, err
		}

		return &Output{Ciphertext: ciphertext, PrivateKey: priv}, nil
	}
}
