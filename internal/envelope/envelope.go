// Package envelope defines the on-disk format of encrypted files and of the
// key files written next to them.
//
// An encrypted file is a header followed by the payload:
//
//	magic "GCRY" | version | flags | algorithm | mode | key bits (uint16) | IV or nonce
//
// For GCM the 16-byte tag trails the payload and the header is authenticated
// as the leading part of the additional data.
package envelope

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/idelchi/gocrypt/internal/cryptoerr"
	"github.com/idelchi/gocrypt/internal/dispatch"
	"github.com/idelchi/gocrypt/internal/encryption"
)

const (
	// Magic opens every encrypted file.
	Magic = "GCRY"
	// Version is the format version written and accepted.
	Version = byte(1)

	flagExec = 0x01

	// fixedSize is the header length before the IV.
	fixedSize = len(Magic) + 6
)

const (
	algorithmAES byte = 0x01
	algorithmRSA byte = 0x02
)

// ErrFormat is returned for input that is not a valid envelope.
var ErrFormat = fmt.Errorf("%w: not a valid encrypted file", cryptoerr.ErrInput)

// Header describes how the payload was produced.
type Header struct {
	// Cipher is the algorithm, key size and mode.
	Cipher dispatch.Config
	// IV is the CBC IV or GCM nonce, empty otherwise.
	IV []byte
	// Executable records that the source file was executable.
	Executable bool
}

// MarshalBinary encodes the header.
func (h Header) MarshalBinary() ([]byte, error) {
	if err := h.Cipher.Validate(); err != nil {
		return nil, err
	}

	ivSize := 0
	if h.Cipher.Algorithm == dispatch.AES {
		ivSize = h.Cipher.Mode.IVSize()
	}

	if len(h.IV) != ivSize {
		return nil, fmt.Errorf("%w: header needs a %d-byte IV, got %d", encryption.ErrInvalidIV, ivSize, len(h.IV))
	}

	out := make([]byte, fixedSize, fixedSize+len(h.IV))
	copy(out, Magic)

	out[4] = Version

	if h.Executable {
		out[5] |= flagExec
	}

	switch h.Cipher.Algorithm {
	case dispatch.AES:
		out[6] = algorithmAES
	case dispatch.RSA:
		out[6] = algorithmRSA
	}

	out[7] = byte(h.Cipher.Mode)
	binary.BigEndian.PutUint16(out[8:], uint16(h.Cipher.KeyBits)) //nolint:gosec // validated above

	return append(out, h.IV...), nil
}

// ReadHeader reads and validates a header from r, returning it together with
// its encoded bytes.
func ReadHeader(r io.Reader) (Header, []byte, error) {
	raw := make([]byte, fixedSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return Header{}, nil, headerReadError(err)
	}

	if !bytes.Equal(raw[:len(Magic)], []byte(Magic)) {
		return Header{}, nil, fmt.Errorf("%w: bad magic", ErrFormat)
	}

	if raw[4] != Version {
		return Header{}, nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, raw[4])
	}

	header := Header{
		Executable: raw[5]&flagExec != 0,
		Cipher: dispatch.Config{
			Mode:    encryption.Mode(raw[7]),
			KeyBits: int(binary.BigEndian.Uint16(raw[8:])),
		},
	}

	switch raw[6] {
	case algorithmAES:
		header.Cipher.Algorithm = dispatch.AES
	case algorithmRSA:
		header.Cipher.Algorithm = dispatch.RSA
	default:
		return Header{}, nil, fmt.Errorf("%w: unknown algorithm %d", ErrFormat, raw[6])
	}

	if err := header.Cipher.Validate(); err != nil {
		return Header{}, nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	if header.Cipher.Algorithm == dispatch.AES && header.Cipher.Mode.IVSize() > 0 {
		header.IV = make([]byte, header.Cipher.Mode.IVSize())
		if _, err := io.ReadFull(r, header.IV); err != nil {
			return Header{}, nil, headerReadError(err)
		}

		raw = append(raw, header.IV...)
	}

	return header, raw, nil
}

// Size returns the encoded length of the header.
func (h Header) Size() int {
	return fixedSize + len(h.IV)
}

// AdditionalData returns the GCM additional data: the encoded header followed by extra.
func AdditionalData(raw, extra []byte) []byte {
	return append(bytes.Clone(raw), extra...)
}

func headerReadError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated header", ErrFormat)
	}

	return fmt.Errorf("reading header: %w", err)
}
