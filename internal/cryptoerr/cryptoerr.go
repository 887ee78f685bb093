// Package cryptoerr defines the error kinds shared by the cipher packages.
//
// Specific errors wrap one of the kinds below, so callers classify a failure with
// errors.Is without depending on the package that produced it.
package cryptoerr

import "errors"

var (
	// ErrConfiguration is returned for an unsupported algorithm, key size or mode combination.
	// It is reported before any work is done.
	ErrConfiguration = errors.New("unsupported configuration")
	// ErrInput is returned for input the operation cannot accept as given,
	// such as an oversized OAEP message or a truncated ciphertext.
	ErrInput = errors.New("invalid input")
	// ErrVerification is the single, undifferentiated failure of an authenticity or padding check.
	ErrVerification = errors.New("decryption/verification failed")
)
