package envelope

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/idelchi/gocrypt/internal/cryptoerr"
	"github.com/idelchi/gocrypt/internal/dispatch"
	"github.com/idelchi/gocrypt/internal/fileutil"
	"github.com/idelchi/gocrypt/internal/rsa"
)

// KeySuffix is appended to an encrypted file's name to name its key file.
const KeySuffix = ".key"

// KeyFile is the key material for one encrypted file.
type KeyFile struct {
	// Algorithm is "aes" or "rsa".
	Algorithm dispatch.Algorithm `json:"algorithm"`
	// Mode is the AES mode, empty for RSA.
	Mode string `json:"mode,omitempty"`
	// Bits is the AES key or RSA modulus size.
	Bits int `json:"bits"`
	// Key is the hex AES key.
	Key string `json:"key,omitempty"`
	// PrivateKey is the RSA keypair.
	PrivateKey json.RawMessage `json:"private_key,omitempty"`
}

// NewAESKeyFile describes an AES key.
func NewAESKeyFile(cfg dispatch.Config, key []byte) *KeyFile {
	return &KeyFile{
		Algorithm: dispatch.AES,
		Mode:      cfg.Mode.String(),
		Bits:      cfg.KeyBits,
		Key:       hex.EncodeToString(key),
	}
}

// NewRSAKeyFile describes an RSA keypair.
func NewRSAKeyFile(priv *rsa.PrivateKey) (*KeyFile, error) {
	data, err := json.Marshal(priv)
	if err != nil {
		return nil, fmt.Errorf("encoding private key: %w", err)
	}

	return &KeyFile{Algorithm: dispatch.RSA, Bits: priv.N.BitLen(), PrivateKey: data}, nil
}

// AESKey decodes the AES key.
func (k *KeyFile) AESKey() ([]byte, error) {
	if k.Algorithm != dispatch.AES || k.Key == "" {
		return nil, fmt.Errorf("%w: key file holds no AES key", cryptoerr.ErrConfiguration)
	}

	key, err := hex.DecodeString(k.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding AES key: %w", cryptoerr.ErrConfiguration, err)
	}

	return key, nil
}

// RSAKey decodes the RSA keypair.
func (k *KeyFile) RSAKey() (*rsa.PrivateKey, error) {
	if k.Algorithm != dispatch.RSA || len(k.PrivateKey) == 0 {
		return nil, fmt.Errorf("%w: key file holds no RSA key", cryptoerr.ErrConfiguration)
	}

	return rsa.ParsePrivateKey(k.PrivateKey)
}

// Write stores the key file at path with mode 0600.
func (k *KeyFile) Write(path string) error {
	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding key file: %w", err)
	}

	return fileutil.WriteFile(path, append(data, '\n'))
}

// ReadKeyFile loads a key file. Besides the format Write produces it accepts a
// bare RSA key as printed by keygen, and a bare hex AES key.
// Comments and trailing commas are accepted.
func ReadKeyFile(path string) (*KeyFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is from user-supplied config
	if err != nil {
		return nil, fmt.Errorf("reading key file %q: %w", path, err)
	}

	data = bytes.TrimSpace(jsonc.ToJSONInPlace(data))

	if len(data) > 0 && data[0] != '{' {
		key := string(data)

		return &KeyFile{Algorithm: dispatch.AES, Bits: len(key) * 4, Key: key}, nil //nolint:mnd // hex digits
	}

	var key KeyFile
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("parsing key file %q: %w", path, err)
	}

	if key.Algorithm == "" {
		return &KeyFile{Algorithm: dispatch.RSA, PrivateKey: data}, nil
	}

	return &key, nil
}

// ReadPublicKey loads an RSA public key from a key file, a bare keypair or a bare public key.
func ReadPublicKey(path string) (*rsa.PublicKey, error) {
	key, err := ReadKeyFile(path)
	if err != nil {
		return nil, err
	}

	if key.Algorithm != dispatch.RSA || len(key.PrivateKey) == 0 {
		return nil, fmt.Errorf("%w: %q holds no RSA key", cryptoerr.ErrConfiguration, path)
	}

	return rsa.ParsePublicKey(key.PrivateKey)
}
