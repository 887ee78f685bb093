package rsa

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
)

// EncryptBlock OAEP-pads msg, which must fit in one block, and encrypts it to
// a k-byte block. random supplies the OAEP seed; nil means crypto/rand.
func EncryptBlock(random io.Reader, pub *PublicKey, msg []byte) ([]byte, error) {
	if err := pub.check(); err != nil {
		return nil, err
	}

	return encryptBlock(orDefault(random), pub, msg)
}

func encryptBlock(random io.Reader, pub *PublicKey, msg []byte) ([]byte, error) {
	k := pub.Size()

	em, err := oaepPad(random, msg, k)
	if err != nil {
		return nil, err
	}

	m := new(big.Int).SetBytes(em)
	c := m.Exp(m, big.NewInt(int64(pub.E)), pub.N)

	return c.FillBytes(em), nil
}

// DecryptBlock decrypts one k-byte block and strips its OAEP padding.
// random supplies the blinding factor; nil means crypto/rand.
func DecryptBlock(random io.Reader, priv *PrivateKey, block []byte) ([]byte, error) {
	if err := priv.PublicKey.check(); err != nil {
		return nil, err
	}

	return decryptBlock(orDefault(random), priv, block)
}

func decryptBlock(random io.Reader, priv *PrivateKey, block []byte) ([]byte, error) {
	k := priv.Size()
	if len(block) != k {
		return nil, fmt.Errorf("%w: block is %d bytes, want %d", ErrTruncated, len(block), k)
	}

	c := new(big.Int).SetBytes(block)
	if c.Cmp(priv.N) >= 0 {
		return nil, ErrDecryption
	}

	m, err := blindedExp(random, priv, c)
	if err != nil {
		return nil, err
	}

	return oaepUnpad(m.FillBytes(make([]byte, k)), k)
}

// blindedExp computes c^d mod n as (c * r^e)^d * r^-1 for a fresh random r
// coprime to n, so the exponentiation never runs on the caller's ciphertext.
func blindedExp(random io.Reader, priv *PrivateKey, c *big.Int) (*big.Int, error) {
	var r, rInv *big.Int

	for {
		var err error

		r, err = rand.Int(random, priv.N)
		if err != nil {
			return nil, fmt.Errorf("drawing blinding factor: %w", err)
		}

		if r.Sign() == 0 {
			continue
		}

		if rInv = new(big.Int).ModInverse(r, priv.N); rInv != nil {
			break
		}
	}

	blinded := new(big.Int).Exp(r, big.NewInt(int64(priv.E)), priv.N)
	blinded.Mul(blinded, c).Mod(blinded, priv.N)

	m := blinded.Exp(blinded, priv.D, priv.N)

	return m.Mul(m, rInv).Mod(m, priv.N), nil
}

// Encrypt splits msg into ChunkSize chunks and encrypts each into a k-byte block.
// An empty msg produces one block carrying an empty chunk rather than an empty
// ciphertext, so every valid ciphertext is at least one block and an empty one
// can be reported as truncated by Decrypt.
func Encrypt(random io.Reader, pub *PublicKey, msg []byte) ([]byte, error) {
	var out bytes.Buffer

	if err := EncryptStream(random, pub, bytes.NewReader(msg), &out); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// Decrypt decrypts the concatenated k-byte blocks of ciphertext.
// Nothing is returned unless every block decrypts. Empty ciphertext is ErrTruncated,
// never an empty message: Encrypt emits a block even for empty input.
func Decrypt(random io.Reader, priv *PrivateKey, ciphertext []byte) ([]byte, error) {
	var out bytes.Buffer

	if err := DecryptStream(random, priv, bytes.NewReader(ciphertext), &out); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// EncryptStream reads reader to EOF, ChunkSize bytes at a time, and writes one
// k-byte block per chunk to writer.
func EncryptStream(random io.Reader, pub *PublicKey, reader io.Reader, writer io.Writer) error {
	if err := pub.check(); err != nil {
		return err
	}

	random = orDefault(random)
	chunk := make([]byte, pub.ChunkSize())

	for blocks := 0; ; blocks++ {
		n, err := io.ReadFull(reader, chunk)

		switch {
		case errors.Is(err, io.EOF):
			if blocks > 0 {
				return nil
			}
		case errors.Is(err, io.ErrUnexpectedEOF):
		case err != nil:
			return fmt.Errorf("reading plaintext: %w", err)
		}

		block, encErr := encryptBlock(random, pub, chunk[:n])
		if encErr != nil {
			return encErr
		}

		if _, werr := writer.Write(block); werr != nil {
			return fmt.Errorf("writing ciphertext: %w", werr)
		}

		if err != nil {
			return nil
		}
	}
}

// DecryptStream reads k-byte blocks from reader to EOF and writes the recovered
// chunks to writer. Empty input and a short final block are ErrTruncated.
func DecryptStream(random io.Reader, priv *PrivateKey, reader io.Reader, writer io.Writer) error {
	if err := priv.PublicKey.check(); err != nil {
		return err
	}

	random = orDefault(random)
	block := make([]byte, priv.Size())

	for blocks := 0; ; blocks++ {
		n, err := io.ReadFull(reader, block)

		switch {
		case errors.Is(err, io.EOF):
			if blocks == 0 {
				return ErrTruncated
			}

			return nil
		case errors.Is(err, io.ErrUnexpectedEOF):
			return fmt.Errorf("%w: final block is %d of %d bytes", ErrTruncated, n, len(block))
		case err != nil:
			return fmt.Errorf("reading ciphertext: %w", err)
		}

		chunk, err := decryptBlock(random, priv, block)
		if err != nil {
			return err
		}

		if _, err := writer.Write(chunk); err != nil {
			return fmt.Errorf("writing plaintext: %w", err)
		}
	}
}

func orDefault(random io.Reader) io.Reader {
	if random == nil {
		return rand.Reader
	}

	return random
}
