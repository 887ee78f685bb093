package encryption

import (
	"fmt"

	"github.com/idelchi/gocrypt/internal/cryptoerr"
)

var (
	// ErrInvalidBlockSize is returned when padded ciphertext is not a non-empty multiple of the block size.
	ErrInvalidBlockSize = fmt.Errorf("%w: ciphertext is not a multiple of block size", cryptoerr.ErrInput)
	// ErrInvalidIV is returned when the IV or nonce length does not match the mode.
	ErrInvalidIV = fmt.Errorf("%w: IV length does not match mode", cryptoerr.ErrInput)
	// ErrInvalidTag is returned when a GCM tag of the wrong length is supplied.
	ErrInvalidTag = fmt.Errorf("%w: authentication tag must be %d bytes", cryptoerr.ErrInput, TagSize)
	// ErrAdditionalData is returned when additional data is supplied to a mode without authentication.
	ErrAdditionalData = fmt.Errorf("%w: additional data requires GCM", cryptoerr.ErrConfiguration)
)
