package gf_test

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"os"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/idelchi/gocrypt/internal/gf"
)

// Case is a single known-answer vector from a YAML golden file.
type Case struct {
	A           string `yaml:"a"`
	B           string `yaml:"b"`
	X           string `yaml:"x"`
	Y           string `yaml:"y"`
	H           string `yaml:"h"`
	Data        string `yaml:"data"`
	Product     string `yaml:"product"`
	Description string `yaml:"description,omitempty"`
}

// Group is a named collection of vectors.
type Group struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`
}

func loadGroups(t *testing.T, path string) map[string][]Case {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}

	var groups []Group
	if err := yaml.Unmarshal(data, &groups); err != nil {
		t.Fatalf("parsing %s: %v", path, err)
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

// referenceMul8 is the textbook xtime ladder, used to cross-check Mul8.
func referenceMul8(a, b byte) byte {
	var p byte

	for b != 0 {
		if b&1 != 0 {
			p ^= a
		}

		high := a & 0x80
		a <<= 1

		if high != 0 {
			a ^= 0x1b
		}

		b >>= 1
	}

	return p
}

func TestMul8Golden(t *testing.T) {
	t.Parallel()

	for name, cases := range loadGroups(t, "testdata/gf8.yml") {
		for _, tc := range cases {
			t.Run(name+"/"+tc.Description, func(t *testing.T) {
				t.Parallel()

				a, b, want := mustHex(t, tc.A)[0], mustHex(t, tc.B)[0], mustHex(t, tc.Product)[0]

				if got := gf.Mul8(a, b); got != want {
					t.Errorf("Mul8(%02x, %02x) = %02x, want %02x", a, b, got, want)
				}
			})
		}
	}
}

func TestMul8Exhaustive(t *testing.T) {
	t.Parallel()

	for a := range 256 {
		for b := range 256 {
			got := gf.Mul8(byte(a), byte(b))
			if want := referenceMul8(byte(a), byte(b)); got != want {
				t.Fatalf("Mul8(%02x, %02x) = %02x, want %02x", a, b, got, want)
			}

			if got != gf.Mul8(byte(b), byte(a)) {
				t.Fatalf("Mul8 not commutative for %02x, %02x", a, b)
			}
		}

		if got := gf.Mul8(byte(a), 1); got != byte(a) {
			t.Fatalf("Mul8(%02x, 1) = %02x", a, got)
		}
	}
}

func TestInverse8(t *testing.T) {
	t.Parallel()

	if got := gf.Inverse8(0); got != 0 {
		t.Errorf("Inverse8(0) = %02x, want 00", got)
	}

	for a := 1; a < 256; a++ {
		if got := gf.Mul8(byte(a), gf.Inverse8(byte(a))); got != 1 {
			t.Fatalf("a * Inverse8(a) = %02x for a = %02x", got, a)
		}
	}
}

func TestMulGolden(t *testing.T) {
	t.Parallel()

	groups := loadGroups(t, "testdata/gf128.yml")

	for _, tc := range groups["multiplication"] {
		t.Run(tc.Description, func(t *testing.T) {
			t.Parallel()

			x := gf.FromBytes(mustHex(t, tc.X))
			y := gf.FromBytes(mustHex(t, tc.Y))
			want := mustHex(t, tc.Product)

			if got := gf.Mul(x, y).Bytes(); !bytes.Equal(got, want) {
				t.Errorf("Mul = %x, want %x", got, want)
			}

			if got := gf.Mul(y, x).Bytes(); !bytes.Equal(got, want) {
				t.Errorf("Mul (commuted) = %x, want %x", got, want)
			}
		})
	}

	for _, tc := range groups["ghash"] {
		t.Run(tc.Description, func(t *testing.T) {
			t.Parallel()

			h := gf.FromBytes(mustHex(t, tc.H))
			want := mustHex(t, tc.Product)

			if got := gf.GHASH(h, mustHex(t, tc.Data)).Bytes(); !bytes.Equal(got, want) {
				t.Errorf("GHASH = %x, want %x", got, want)
			}
		})
	}
}

func randomElement(t *testing.T) gf.Element {
	t.Helper()

	b := make([]byte, gf.BlockSize)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("reading random bytes: %v", err)
	}

	return gf.FromBytes(b)
}

func TestMulProperties(t *testing.T) {
	t.Parallel()

	for range 64 {
		x, y, z := randomElement(t), randomElement(t), randomElement(t)

		if got := gf.Mul(x, gf.Element{}); !got.IsZero() {
			t.Fatalf("Mul(x, 0) = %x, want 0", got.Bytes())
		}

		if got := gf.Mul(x, gf.One); got != x {
			t.Fatalf("Mul(x, 1) = %x, want %x", got.Bytes(), x.Bytes())
		}

		if gf.Mul(x, y) != gf.Mul(y, x) {
			t.Fatalf("Mul not commutative for %x, %x", x.Bytes(), y.Bytes())
		}

		if gf.Mul(x, y.Xor(z)) != gf.Mul(x, y).Xor(gf.Mul(x, z)) {
			t.Fatalf("Mul does not distribute over addition")
		}

		if gf.Mul(x, y) != gf.Mul(x, y) {
			t.Fatalf("Mul is not deterministic")
		}
	}
}

func TestHashIncremental(t *testing.T) {
	t.Parallel()

	h := randomElement(t)

	data := make([]byte, 133)
	if _, err := rand.Read(data); err != nil {
		t.Fatalf("reading random bytes: %v", err)
	}

	want := gf.GHASH(h, data)

	for _, split := range []int{0, 1, 15, 16, 17, 64, 100, 133} {
		hash := gf.NewHash(h)
		hash.Write(data[:split]) //nolint:errcheck
		hash.Write(data[split:]) //nolint:errcheck

		if got := hash.Sum(); got != want {
			t.Errorf("split at %d: Sum = %x, want %x", split, got.Bytes(), want.Bytes())
		}
	}
}
