package rsa_test

import (
	"bytes"
	"context"
	"crypto/rand"
	stdrsa "crypto/rsa"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/gocrypt/internal/cryptoerr"
	"github.com/idelchi/gocrypt/internal/rsa"
)

//nolint:gochecknoglobals
var sharedKey = sync.OnceValues(func() (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(context.Background(), 1024)
})

func key1024(t *testing.T) *rsa.PrivateKey {
	t.Helper()

	key, err := sharedKey()
	require.NoError(t, err, "failed to generate RSA key")

	return key
}

func mersenne(p uint) *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), p), big.NewInt(1))
}

func TestIsProbablePrime(t *testing.T) {
	t.Parallel()

	primes := []*big.Int{
		big.NewInt(2), big.NewInt(3), big.NewInt(5), big.NewInt(997), big.NewInt(1009),
		big.NewInt(7919),
		mersenne(61), mersenne(89), mersenne(127), mersenne(521),
	}

	composites := []*big.Int{
		big.NewInt(0), big.NewInt(1), big.NewInt(4), big.NewInt(9), big.NewInt(994009),
		// Carmichael numbers
		big.NewInt(561), big.NewInt(1105), big.NewInt(41041), big.NewInt(825265),
		// strong pseudoprimes to small bases
		big.NewInt(2047), big.NewInt(3215031751),
		mersenne(67),
		new(big.Int).Mul(mersenne(61), mersenne(89)),
		new(big.Int).Mul(mersenne(127), mersenne(127)),
	}

	for _, p := range primes {
		ok, err := rsa.IsProbablePrime(p, rsa.DefaultRounds)
		require.NoError(t, err)
		assert.True(t, ok, "%v is prime", p)
	}

	for _, c := range composites {
		ok, err := rsa.IsProbablePrime(c, rsa.DefaultRounds)
		require.NoError(t, err)
		assert.False(t, ok, "%v is composite", c)
	}
}

func TestGeneratePrime(t *testing.T) {
	t.Parallel()

	for _, bits := range []int{16, 64, 65, 71, 256} {
		t.Run(fmt.Sprintf("bits=%d", bits), func(t *testing.T) {
			t.Parallel()

			p, err := rsa.GeneratePrime(context.Background(), bits)
			require.NoError(t, err)

			assert.Equal(t, bits, p.BitLen())
			assert.Equal(t, uint(1), p.Bit(bits-2), "second-highest bit must be set")
			assert.True(t, p.ProbablyPrime(20))
		})
	}
}

func TestGeneratePrimeCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rsa.GeneratePrime(ctx, 512)
	require.ErrorIs(t, err, context.Canceled)

	_, err = rsa.GenerateKey(ctx, 2048)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	key := key1024(t)

	assert.Equal(t, 1024, key.N.BitLen())
	assert.Equal(t, 128, key.Size())
	assert.Equal(t, rsa.PublicExponent, key.E)
	require.Len(t, key.Primes, 2)

	p, q := key.Primes[0], key.Primes[1]
	assert.NotEqual(t, 0, p.Cmp(q), "p and q must differ")
	assert.Equal(t, 0, new(big.Int).Mul(p, q).Cmp(key.N))

	phi := new(big.Int).Mul(new(big.Int).Sub(p, big.NewInt(1)), new(big.Int).Sub(q, big.NewInt(1)))
	ed := new(big.Int).Mul(key.D, big.NewInt(int64(key.E)))
	assert.Equal(t, int64(1), ed.Mod(ed, phi).Int64(), "d must invert e modulo phi")

	require.NoError(t, key.Validate())
}

func TestGenerateKeyRejectsSize(t *testing.T) {
	t.Parallel()

	for _, bits := range []int{0, 512, 1023, 2049} {
		_, err := rsa.GenerateKey(context.Background(), bits)
		require.ErrorIs(t, err, rsa.ErrKeyBits)
		require.ErrorIs(t, err, cryptoerr.ErrConfiguration)
	}
}

func TestEncryptAndDecrypt_Flow(t *testing.T) {
	t.Parallel()

	key := key1024(t)

	t.Run("[Math] ChunkSize1024", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 128-2*sha256.Size-2, key.ChunkSize())
	})

	chunk := key.ChunkSize()

	for _, size := range []int{0, 1, 15, chunk - 1, chunk, chunk + 1, 2*chunk - 1, 2 * chunk, 3*chunk + 5, 1000} {
		t.Run(fmt.Sprintf("[RoundTrip] len=%d", size), func(t *testing.T) {
			t.Parallel()

			msg := make([]byte, size)
			_, err := rand.Read(msg)
			require.NoError(t, err)

			ct, err := rsa.Encrypt(nil, key.Public(), msg)
			require.NoError(t, err, "encrypt failed")

			blocks := max(1, (size+chunk-1)/chunk)
			assert.Len(t, ct, blocks*key.Size(), "one k-byte block per chunk")

			pt, err := rsa.Decrypt(nil, key, ct)
			require.NoError(t, err, "decrypt failed")

			assert.True(t, bytes.Equal(msg, pt), "plaintext mismatch")
		})
	}
}

func TestEncryptIsRandomized(t *testing.T) {
	t.Parallel()

	key := key1024(t)
	msg := []byte("same message")

	a, err := rsa.Encrypt(nil, key.Public(), msg)
	require.NoError(t, err)

	b, err := rsa.Encrypt(nil, key.Public(), msg)
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "OAEP seeds must differ between calls")
}

func TestDecryptWithAlteredKey(t *testing.T) {
	t.Parallel()

	key := key1024(t)

	ct, err := rsa.Encrypt(nil, key.Public(), []byte("top secret"))
	require.NoError(t, err)

	altered := *key
	altered.D = new(big.Int).Sub(key.D, big.NewInt(2))

	pt, err := rsa.Decrypt(nil, &altered, ct)
	require.ErrorIs(t, err, cryptoerr.ErrVerification)
	assert.Nil(t, pt)
}

func TestDecryptErrors(t *testing.T) {
	t.Parallel()

	key := key1024(t)

	ct, err := rsa.Encrypt(nil, key.Public(), bytes.Repeat([]byte("x"), 100))
	require.NoError(t, err)
	require.Len(t, ct, 2*key.Size())

	t.Run("truncated", func(t *testing.T) {
		t.Parallel()

		_, err := rsa.Decrypt(nil, key, ct[:len(ct)-1])
		require.ErrorIs(t, err, rsa.ErrTruncated)
		require.ErrorIs(t, err, cryptoerr.ErrInput)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		_, err := rsa.Decrypt(nil, key, nil)
		require.ErrorIs(t, err, rsa.ErrTruncated)
	})

	t.Run("tampered", func(t *testing.T) {
		t.Parallel()

		tampered := bytes.Clone(ct)
		tampered[key.Size()+7] ^= 0x40

		pt, err := rsa.Decrypt(nil, key, tampered)
		require.ErrorIs(t, err, cryptoerr.ErrVerification)
		assert.Nil(t, pt, "no partial plaintext on failure")
	})

	t.Run("block above modulus", func(t *testing.T) {
		t.Parallel()

		_, err := rsa.DecryptBlock(nil, key, bytes.Repeat([]byte{0xFF}, key.Size()))
		require.ErrorIs(t, err, cryptoerr.ErrVerification)
	})
}

func TestEncryptBlockTooLong(t *testing.T) {
	t.Parallel()

	key := key1024(t)

	_, err := rsa.EncryptBlock(nil, key.Public(), make([]byte, key.ChunkSize()+1))
	require.ErrorIs(t, err, rsa.ErrMessageTooLong)
	require.ErrorIs(t, err, cryptoerr.ErrInput)

	block, err := rsa.EncryptBlock(nil, key.Public(), make([]byte, key.ChunkSize()))
	require.NoError(t, err)
	assert.Len(t, block, key.Size())
}

func TestModulusTooSmall(t *testing.T) {
	t.Parallel()

	pub := &rsa.PublicKey{N: new(big.Int).Lsh(big.NewInt(1), 511), E: rsa.PublicExponent}

	_, err := rsa.Encrypt(nil, pub, []byte("x"))
	require.ErrorIs(t, err, rsa.ErrKeyTooSmall)
	require.ErrorIs(t, err, cryptoerr.ErrConfiguration)
}

// TestStandardLibraryInterop exchanges single blocks with crypto/rsa OAEP-SHA256.
func TestStandardLibraryInterop(t *testing.T) {
	t.Parallel()

	std, err := stdrsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	key := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{N: std.N, E: std.E},
		D:         std.D,
		Primes:    std.Primes,
	}
	require.NoError(t, key.Validate())
	assert.Equal(t, 190, key.ChunkSize())

	msg := []byte("interoperable OAEP")

	ours, err := rsa.Encrypt(nil, key.Public(), msg)
	require.NoError(t, err)

	got, err := stdrsa.DecryptOAEP(sha256.New(), rand.Reader, std, ours, nil)
	require.NoError(t, err, "crypto/rsa rejected our ciphertext")
	assert.Equal(t, msg, got)

	theirs, err := stdrsa.EncryptOAEP(sha256.New(), rand.Reader, &std.PublicKey, msg, nil)
	require.NoError(t, err)

	got, err = rsa.Decrypt(nil, key, theirs)
	require.NoError(t, err, "we rejected crypto/rsa ciphertext")
	assert.Equal(t, msg, got)
}

func TestKeyJSON(t *testing.T) {
	t.Parallel()

	key := key1024(t)

	data, err := json.Marshal(key)
	require.NoError(t, err)

	parsed, err := rsa.ParsePrivateKey(data)
	require.NoError(t, err)

	assert.True(t, key.Public().Equal(parsed.Public()))
	assert.Equal(t, 0, key.D.Cmp(parsed.D))
	require.Len(t, parsed.Primes, 2)

	pubData, err := json.Marshal(key.Public())
	require.NoError(t, err)

	pub, err := rsa.ParsePublicKey(pubData)
	require.NoError(t, err)
	assert.True(t, key.Public().Equal(pub))

	t.Run("jsonc", func(t *testing.T) {
		t.Parallel()

		commented := fmt.Sprintf("{\n  // modulus\n  \"n\": %q,\n  \"e\": 65537, /* fixed */\n}", key.N.Text(16))

		pub, err := rsa.ParsePublicKey([]byte(commented))
		require.NoError(t, err)
		assert.True(t, key.Public().Equal(pub))
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		_, err := rsa.ParsePublicKey([]byte(`{"n": "not-hex", "e": 65537}`))
		require.Error(t, err)

		_, err = rsa.ParsePrivateKey([]byte(fmt.Sprintf(`{"n": %q, "e": 65537}`, key.N.Text(16))))
		require.ErrorIs(t, err, cryptoerr.ErrConfiguration)

		wrongD := fmt.Sprintf(`{"n": %q, "e": 65537, "d": %q, "p": %q, "q": %q}`,
			key.N.Text(16), new(big.Int).Sub(key.D, big.NewInt(2)).Text(16),
			key.Primes[0].Text(16), key.Primes[1].Text(16))

		_, err = rsa.ParsePrivateKey([]byte(wrongD))
		require.ErrorIs(t, err, cryptoerr.ErrConfiguration)
	})
}
