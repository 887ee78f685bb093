package rsa

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/tidwall/jsonc"

	"github.com/idelchi/gocrypt/internal/cryptoerr"
)

// hexInt is a big.Int that marshals as a lower-case hex string.
type hexInt struct {
	*big.Int
}

func (h hexInt) MarshalText() ([]byte, error) {
	if h.Int == nil {
		return nil, fmt.Errorf("%w: missing key value", cryptoerr.ErrConfiguration)
	}

	return []byte(h.Text(16)), nil //nolint:mnd
}

func (h *hexInt) UnmarshalText(text []byte) error {
	v, ok := new(big.Int).SetString(string(text), 16) //nolint:mnd
	if !ok || v.Sign() <= 0 {
		return fmt.Errorf("%w: %q is not a positive hex integer", cryptoerr.ErrConfiguration, text)
	}

	h.Int = v

	return nil
}

// publicKeyJSON is the serialized form of a public key.
type publicKeyJSON struct {
	N hexInt `json:"n"`
	E int    `json:"e"`
}

// privateKeyJSON is the serialized form of a keypair.
type privateKeyJSON struct {
	N hexInt  `json:"n"`
	E int     `json:"e"`
	D hexInt  `json:"d"`
	P *hexInt `json:"p,omitempty"`
	Q *hexInt `json:"q,omitempty"`
}

// MarshalJSON encodes the key as {"n": hex, "e": int}.
func (pub *PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(publicKeyJSON{N: hexInt{pub.N}, E: pub.E})
}

// MarshalJSON encodes the keypair as {"n", "e", "d", "p", "q"} with hex integers.
func (priv *PrivateKey) MarshalJSON() ([]byte, error) {
	out := privateKeyJSON{N: hexInt{priv.N}, E: priv.E, D: hexInt{priv.D}}

	if len(priv.Primes) == 2 { //nolint:mnd
		out.P, out.Q = &hexInt{priv.Primes[0]}, &hexInt{priv.Primes[1]}
	}

	return json.Marshal(out)
}

// ParsePublicKey decodes a public key. Comments and trailing commas are accepted.
func ParsePublicKey(data []byte) (*PublicKey, error) {
	var raw publicKeyJSON
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}

	pub := &PublicKey{N: raw.N.Int, E: raw.E}
	if err := pub.check(); err != nil {
		return nil, err
	}

	return pub, nil
}

// ParsePrivateKey decodes and validates a keypair. Comments and trailing commas are accepted.
func ParsePrivateKey(data []byte) (*PrivateKey, error) {
	var raw privateKeyJSON
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	priv := &PrivateKey{
		PublicKey: PublicKey{N: raw.N.Int, E: raw.E},
		D:         raw.D.Int,
	}

	if raw.P != nil && raw.Q != nil {
		priv.Primes = []*big.Int{raw.P.Int, raw.Q.Int}
	}

	if err := priv.Validate(); err != nil {
		return nil, err
	}

	return priv, nil
}
