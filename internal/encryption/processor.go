package encryption

import (
	"bytes"
	"fmt"
	"io"

	"github.com/idelchi/gocrypt/internal/aes"
)

// Processor encrypts and decrypts streams with one key, IV and mode.
type Processor struct {
	// mode of operation
	mode Mode

	// block is the expanded key
	block *aes.Cipher

	// iv is the CBC IV or GCM nonce, nil for ECB
	iv []byte

	// aad is authenticated but not encrypted, GCM only
	aad []byte
}

// NewProcessor validates the key, IV and additional data for the mode
// and prepares the key schedule.
func NewProcessor(mode Mode, key, iv, aad []byte) (*Processor, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownMode, mode)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	if len(iv) != mode.IVSize() {
		return nil, fmt.Errorf("%w: %s needs %d bytes, got %d", ErrInvalidIV, mode, mode.IVSize(), len(iv))
	}

	if len(aad) > 0 && mode != ModeGCM {
		return nil, fmt.Errorf("%w: mode %s", ErrAdditionalData, mode)
	}

	return &Processor{
		mode:  mode,
		block: block,
		iv:    bytes.Clone(iv),
		aad:   bytes.Clone(aad),
	}, nil
}

// Mode returns the mode the processor was created with.
func (p *Processor) Mode() Mode {
	return p.mode
}

// Encrypt reads plaintext from reader until EOF and writes ciphertext to writer.
// For GCM it returns the authentication tag; for ECB and CBC the tag is nil.
func (p *Processor) Encrypt(reader io.Reader, writer io.Writer) ([]byte, error) {
	switch p.mode {
	case ModeECB:
		return nil, pump(reader, writer, &ecbEncrypter{block: p.block}, false)
	case ModeCBC:
		return nil, pump(reader, writer, newCBCEncrypter(p.block, p.iv), false)
	default:
		sealer := &gcmSealer{gcm: newGCM(p.block, p.iv, p.aad)}
		if err := pump(reader, writer, sealer, false); err != nil {
			return nil, err
		}

		return sealer.sum, nil
	}
}

// Decrypt reads ciphertext from reader until EOF and writes plaintext to writer.
// For GCM, tag must be the tag produced by Encrypt. Plaintext is written as it is
// recovered, so on an authentication failure the caller must discard what was written.
func (p *Processor) Decrypt(reader io.Reader, writer io.Writer, tag []byte) error {
	switch p.mode {
	case ModeECB:
		return pump(reader, writer, &ecbDecrypter{block: p.block}, true)
	case ModeCBC:
		return pump(reader, writer, newCBCDecrypter(p.block, p.iv), true)
	default:
		if len(tag) != TagSize {
			return fmt.Errorf("%w: got %d", ErrInvalidTag, len(tag))
		}

		opener := &gcmOpener{gcm: newGCM(p.block, p.iv, p.aad), expected: tag}

		return pump(reader, writer, opener, false)
	}
}

// Seal encrypts plaintext in memory.
func (p *Processor) Seal(plaintext []byte) (ciphertext, tag []byte, err error) {
	var out bytes.Buffer

	out.Grow(len(plaintext) + aes.BlockSize)

	tag, err = p.Encrypt(bytes.NewReader(plaintext), &out)
	if err != nil {
		return nil, nil, err
	}

	return out.Bytes(), tag, nil
}

// Open decrypts ciphertext in memory. Nothing is returned unless the
// padding (ECB, CBC) or the tag (GCM) verifies.
func (p *Processor) Open(ciphertext, tag []byte) ([]byte, error) {
	var out bytes.Buffer

	out.Grow(len(ciphertext))

	if err := p.Decrypt(bytes.NewReader(ciphertext), &out, tag); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}
