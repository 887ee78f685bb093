package encryption

import (
	"fmt"
	"strings"

	"github.com/idelchi/gocrypt/internal/aes"
	"github.com/idelchi/gocrypt/internal/cryptoerr"
)

// Mode represents the block cipher mode of operation.
type Mode byte

const (
	// ModeECB encrypts every block independently. Identical plaintext blocks yield
	// identical ciphertext blocks; this is a property of the mode, not a defect.
	ModeECB Mode = iota + 1
	// ModeCBC chains every block with the previous ciphertext block, starting from a random IV.
	ModeCBC
	// ModeGCM is counter mode with a GHASH authentication tag.
	ModeGCM
)

const (
	// GCMNonceSize is the size of a GCM nonce in bytes.
	GCMNonceSize = 12
	// TagSize is the size of a GCM authentication tag in bytes.
	TagSize = 16
)

// ErrUnknownMode is returned when a mode name or value is not recognized.
var ErrUnknownMode = fmt.Errorf("%w: unknown mode", cryptoerr.ErrConfiguration)

// ParseMode parses a case-insensitive mode name: ecb, cbc or gcm.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "ecb":
		return ModeECB, nil
	case "cbc":
		return ModeCBC, nil
	case "gcm":
		return ModeGCM, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

// String returns the upper-case name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeECB:
		return "ECB"
	case ModeCBC:
		return "CBC"
	case ModeGCM:
		return "GCM"
	default:
		return fmt.Sprintf("Mode(%d)", byte(m))
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m >= ModeECB && m <= ModeGCM
}

// IVSize returns the length of the IV (CBC) or nonce (GCM) the mode needs; 0 for ECB.
func (m Mode) IVSize() int {
	switch m {
	case ModeCBC:
		return aes.BlockSize
	case ModeGCM:
		return GCMNonceSize
	default:
		return 0
	}
}

// Padded reports whether the mode applies PKCS#7 padding.
func (m Mode) Padded() bool {
	return m == ModeECB || m == ModeCBC
}
