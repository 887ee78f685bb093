// Package config holds the command-line configuration and its validation.
package config

import (
	"cmp"
	"errors"
	"fmt"
	"strings"

	"github.com/idelchi/gocrypt/internal/dispatch"
	"github.com/idelchi/gocrypt/internal/encryption"
)

// ErrUsage is returned for flag combinations the struct tags cannot express.
var ErrUsage = errors.New("invalid usage")

// Suffixes configures the file names of the outputs.
type Suffixes struct {
	// Encrypt is appended to encrypted files.
	Encrypt string `mapstructure:"encrypt-ext" validate:"required"`
	// Decrypt is appended to decrypted files after stripping Encrypt.
	Decrypt string `mapstructure:"decrypt-ext"`
}

// Config holds the application's configuration.
type Config struct {
	// Cipher selection, encrypt only
	Algorithm string `validate:"omitempty,oneof=aes rsa"`
	Bits      int    `validate:"min=0"`
	Mode      string `validate:"omitempty,oneof=ecb cbc gcm"`
	AAD       string

	// Key material
	Key     string `validate:"omitempty,hexadecimal,exclusive=KeyFile"`
	KeyFile string `mapstructure:"key-file" validate:"exclusive=Key"`

	// Common flags
	Parallel           int `validate:"min=1"`
	Quiet              bool
	Stats              bool
	Delete             bool
	PreserveTimestamps bool   `mapstructure:"preserve-timestamps"`
	LogLevel           string `mapstructure:"log-level" validate:"oneof=trace debug info warn warning error fatal panic"`

	Suffixes Suffixes `mapstructure:",squash"`

	// Decrypt selects the direction; set by the command, not a flag.
	Decrypt bool `mapstructure:"-"`

	// Positional arguments
	Files []string `mapstructure:"-" validate:"min=1"`
}

// Validate checks the struct tags and the combinations between fields.
func (c *Config) Validate() error {
	validate, err := newValidator()
	if err != nil {
		return err
	}

	if errs := validate.Validate(c); len(errs) > 0 {
		return fmt.Errorf("validating configuration: %w", errors.Join(errs...))
	}

	if c.Decrypt {
		return nil
	}

	if c.Key != "" {
		return fmt.Errorf("%w: --key is only used to decrypt; every encryption generates its own key", ErrUsage)
	}

	cipher, err := c.Cipher()
	if err != nil {
		return err
	}

	if c.AAD != "" && (cipher.Algorithm != dispatch.AES || cipher.Mode != encryption.ModeGCM) {
		return fmt.Errorf("%w: --aad requires AES in GCM mode", ErrUsage)
	}

	if c.KeyFile != "" && cipher.Algorithm != dispatch.RSA {
		return fmt.Errorf("%w: --key-file on encrypt names an RSA public key", ErrUsage)
	}

	return nil
}

// Cipher resolves the algorithm, key size and mode flags into a dispatch configuration.
// AES defaults to GCM.
func (c *Config) Cipher() (dispatch.Config, error) {
	name := c.Algorithm
	if dispatch.Algorithm(c.Algorithm) == dispatch.AES {
		mode := cmp.Or(strings.ToLower(c.Mode), "gcm")
		name += "-" + mode
	} else if c.Mode != "" {
		return dispatch.Config{}, fmt.Errorf("%w: --mode applies to AES only", ErrUsage)
	}

	cfg, err := dispatch.Parse(name, c.Bits)
	if err != nil {
		return dispatch.Config{}, fmt.Errorf("selecting cipher: %w", err)
	}

	return cfg, nil
}
