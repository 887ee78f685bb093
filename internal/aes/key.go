package aes

import (
	"encoding/binary"
	"fmt"

	"github.com/idelchi/gocrypt/internal/cryptoerr"
	"github.com/idelchi/gocrypt/internal/gf"
)

// Key sizes in bytes.
const (
	KeySize128 = 16
	KeySize192 = 24
	KeySize256 = 32
)

// ErrKeySize is returned for keys that are not 16, 24 or 32 bytes long.
var ErrKeySize = fmt.Errorf("%w: AES key must be 16, 24 or 32 bytes", cryptoerr.ErrConfiguration)

// Rounds returns the number of rounds for a key of keyLen bytes, or 0 if the length is invalid.
func Rounds(keyLen int) int {
	switch keyLen {
	case KeySize128, KeySize192, KeySize256:
		return keyLen/4 + 6
	default:
		return 0
	}
}

// Expand derives the key schedule: 4*(rounds+1) big-endian words.
func Expand(key []byte) ([]uint32, error) {
	rounds := Rounds(len(key))
	if rounds == 0 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrKeySize, len(key))
	}

	nk := len(key) / 4
	words := make([]uint32, 4*(rounds+1))

	for i := range nk {
		words[i] = binary.BigEndian.Uint32(key[4*i:])
	}

	rcon := byte(0x01)

	for i := nk; i < len(words); i++ {
		temp := words[i-1]

		switch {
		case i%nk == 0:
			temp = subWord(rotWord(temp)) ^ uint32(rcon)<<24
			rcon = gf.Xtime(rcon)
		case nk > 6 && i%nk == 4:
			temp = subWord(temp)
		}

		words[i] = words[i-nk] ^ temp
	}

	return words, nil
}

func rotWord(w uint32) uint32 {
	return w<<8 | w>>24
}

func subWord(w uint32) uint32 {
	return uint32(sbox[w>>24])<<24 |
		uint32(sbox[w>>16&0xff])<<16 |
		uint32(sbox[w>>8&0xff])<<8 |
		uint32(sbox[w&0xff])
}
