package aes_test

import (
	"bytes"
	stdaes "crypto/aes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/idelchi/gocrypt/internal/aes"
	"github.com/idelchi/gocrypt/internal/cryptoerr"
)

// Case is a single known-answer vector from the golden file.
type Case struct {
	Description string            `yaml:"description"`
	Key         string            `yaml:"key"`
	Plaintext   string            `yaml:"plaintext"`
	Ciphertext  string            `yaml:"ciphertext"`
	Words       map[string]string `yaml:"words"`
}

// Group is a named collection of vectors.
type Group struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`
}

func loadVectors(t *testing.T) map[string][]Case {
	t.Helper()

	data, err := os.ReadFile("testdata/fips197.yml")
	if err != nil {
		t.Fatalf("reading testdata: %v", err)
	}

	var groups []Group
	if err := yaml.Unmarshal(data, &groups); err != nil {
		t.Fatalf("parsing testdata: %v", err)
	}

	byName := make(map[string][]Case, len(groups))
	for _, g := range groups {
		byName[g.Name] = g.Cases
	}

	return byName
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()

	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("decoding %q: %v", s, err)
	}

	return b
}

func TestKnownAnswers(t *testing.T) {
	t.Parallel()

	for _, tc := range loadVectors(t)["blocks"] {
		t.Run(tc.Description, func(t *testing.T) {
			t.Parallel()

			block, err := aes.NewCipher(mustHex(t, tc.Key))
			if err != nil {
				t.Fatalf("NewCipher: %v", err)
			}

			plaintext, want := mustHex(t, tc.Plaintext), mustHex(t, tc.Ciphertext)

			got := make([]byte, aes.BlockSize)
			block.Encrypt(got, plaintext)

			if !bytes.Equal(got, want) {
				t.Errorf("Encrypt = %x, want %x", got, want)
			}

			back := make([]byte, aes.BlockSize)
			block.Decrypt(back, got)

			if !bytes.Equal(back, plaintext) {
				t.Errorf("Decrypt = %x, want %x", back, plaintext)
			}
		})
	}
}

func TestExpand(t *testing.T) {
	t.Parallel()

	for _, tc := range loadVectors(t)["schedules"] {
		t.Run(tc.Description, func(t *testing.T) {
			t.Parallel()

			key := mustHex(t, tc.Key)

			words, err := aes.Expand(key)
			if err != nil {
				t.Fatalf("Expand: %v", err)
			}

			if want := 4 * (aes.Rounds(len(key)) + 1); len(words) != want {
				t.Fatalf("len(schedule) = %d, want %d", len(words), want)
			}

			for index, word := range tc.Words {
				i, err := strconv.Atoi(index)
				if err != nil {
					t.Fatalf("bad index %q: %v", index, err)
				}

				if got := fmt.Sprintf("%08x", words[i]); got != word {
					t.Errorf("w[%d] = %s, want %s", i, got, word)
				}
			}
		})
	}
}

func TestRounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		keyLen int
		rounds int
	}{
		{16, 10},
		{24, 12},
		{32, 14},
		{0, 0},
		{20, 0},
		{64, 0},
	}

	for _, tt := range tests {
		if got := aes.Rounds(tt.keyLen); got != tt.rounds {
			t.Errorf("Rounds(%d) = %d, want %d", tt.keyLen, got, tt.rounds)
		}
	}
}

func TestNewCipherRejectsKeySize(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, 8, 15, 17, 31, 33, 64} {
		_, err := aes.NewCipher(make([]byte, size))
		if !errors.Is(err, aes.ErrKeySize) || !errors.Is(err, cryptoerr.ErrConfiguration) {
			t.Errorf("NewCipher(%d bytes) error = %v, want ErrKeySize", size, err)
		}
	}
}

func TestSubByte(t *testing.T) {
	t.Parallel()

	tests := map[byte]byte{0x00: 0x63, 0x01: 0x7c, 0x53: 0xed, 0xff: 0x16, 0x9a: 0xb8}

	for in, want := range tests {
		if got := aes.SubByte(in); got != want {
			t.Errorf("SubByte(%02x) = %02x, want %02x", in, got, want)
		}

		if got := aes.InvSubByte(want); got != in {
			t.Errorf("InvSubByte(%02x) = %02x, want %02x", want, got, in)
		}
	}
}

// TestMatchesStandardLibrary cross-checks random keys and blocks against crypto/aes.
func TestMatchesStandardLibrary(t *testing.T) {
	t.Parallel()

	for _, size := range []int{aes.KeySize128, aes.KeySize192, aes.KeySize256} {
		t.Run(strconv.Itoa(size*8), func(t *testing.T) {
			t.Parallel()

			for range 32 {
				key := make([]byte, size)
				block := make([]byte, aes.BlockSize)

				if _, err := rand.Read(key); err != nil {
					t.Fatal(err)
				}

				if _, err := rand.Read(block); err != nil {
					t.Fatal(err)
				}

				ours, err := aes.NewCipher(key)
				if err != nil {
					t.Fatal(err)
				}

				reference, err := stdaes.NewCipher(key)
				if err != nil {
					t.Fatal(err)
				}

				got, want := make([]byte, aes.BlockSize), make([]byte, aes.BlockSize)
				ours.Encrypt(got, block)
				reference.Encrypt(want, block)

				if !bytes.Equal(got, want) {
					t.Fatalf("key %x block %x: Encrypt = %x, want %x", key, block, got, want)
				}

				// In-place decryption.
				ours.Decrypt(got, got)

				if !bytes.Equal(got, block) {
					t.Fatalf("key %x: Decrypt = %x, want %x", key, got, block)
				}
			}
		})
	}
}
