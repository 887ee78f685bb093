package logic

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/idelchi/gocrypt/internal/dispatch"
	"github.com/idelchi/gocrypt/internal/encryption"
	"github.com/idelchi/gocrypt/internal/fileutil"
)

// KeygenOptions selects the key to generate and where it goes.
type KeygenOptions struct {
	// Algorithm is "aes" or "rsa".
	Algorithm string
	// Bits is the key size; 0 selects the default.
	Bits int
	// Output receives the key instead of out when set.
	Output string
	// Public receives the RSA public key when set.
	Public string
}

// Keygen generates a key. AES keys are printed as hex, RSA keypairs as JSON.
func Keygen(ctx context.Context, opts KeygenOptions, out io.Writer, log *logrus.Logger) error {
	name := opts.Algorithm
	if dispatch.Algorithm(name) == dispatch.AES {
		name += "-gcm"
	}

	cipher, err := dispatch.Parse(name, opts.Bits)
	if err != nil {
		return err
	}

	start := time.Now()

	var data []byte

	switch cipher.Algorithm {
	case dispatch.AES:
		raw, err := encryption.GenerateKey(cipher.KeyBits)
		if err != nil {
			return err
		}

		data = []byte(hex.EncodeToString(raw))
	default:
		priv, err := dispatch.RSAGenerateKeypair(ctx, cipher.KeyBits)
		if err != nil {
			return fmt.Errorf("generating keypair: %w", err)
		}

		if data, err = json.MarshalIndent(priv, "", "  "); err != nil {
			return fmt.Errorf("encoding keypair: %w", err)
		}

		if opts.Public != "" {
			pub, err := json.MarshalIndent(priv.Public(), "", "  ")
			if err != nil {
				return fmt.Errorf("encoding public key: %w", err)
			}

			if err := fileutil.WriteFile(opts.Public, append(pub, '\n')); err != nil {
				return err
			}
		}
	}

	log.WithFields(logrus.Fields{
		"algorithm": cipher.Algorithm,
		"bits":      cipher.KeyBits,
		"duration":  time.Since(start).Round(time.Millisecond),
	}).Debug("generated key")

	data = append(data, '\n')

	if opts.Output != "" {
		return fileutil.WriteFile(opts.Output, data)
	}

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("writing key: %w", err)
	}

	return nil
}
