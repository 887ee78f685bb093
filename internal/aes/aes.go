// Package aes implements the AES block cipher (FIPS-197) for 128, 192 and 256-bit keys.
//
// Cipher satisfies crypto/cipher.Block. Each Cipher owns its key schedule; a fresh
// state grid is used for every block, so a Cipher may be shared between goroutines.
package aes

// BlockSize is the AES block size in bytes.
const BlockSize = 16

// Cipher is an expanded AES key.
type Cipher struct {
	schedule []uint32
	rounds   int
}

// NewCipher expands key, which must be 16, 24 or 32 bytes long.
func NewCipher(key []byte) (*Cipher, error) {
	schedule, err := Expand(key)
	if err != nil {
		return nil, err
	}

	return &Cipher{
		schedule: schedule,
		rounds:   Rounds(len(key)),
	}, nil
}

// BlockSize returns BlockSize.
func (c *Cipher) BlockSize() int {
	return BlockSize
}

// Rounds returns the number of rounds of the schedule.
func (c *Cipher) Rounds() int {
	return c.rounds
}

// Encrypt encrypts the first block of src into dst. dst and src may overlap entirely.
func (c *Cipher) Encrypt(dst, src []byte) {
	checkBlocks(dst, src)

	s := load(src)
	s.addRoundKey(c.roundKey(0))

	for round := 1; round < c.rounds; round++ {
		s.subBytes()
		s.shiftRows()
		s.mixColumns()
		s.addRoundKey(c.roundKey(round))
	}

	s.subBytes()
	s.shiftRows()
	s.addRoundKey(c.roundKey(c.rounds))

	s.store(dst)
}

// Decrypt decrypts the first block of src into dst. dst and src may overlap entirely.
func (c *Cipher) Decrypt(dst, src []byte) {
	checkBlocks(dst, src)

	s := load(src)
	s.addRoundKey(c.roundKey(c.rounds))

	for round := c.rounds - 1; round > 0; round-- {
		s.invShiftRows()
		s.invSubBytes()
		s.addRoundKey(c.roundKey(round))
		s.invMixColumns()
	}

	s.invShiftRows()
	s.invSubBytes()
	s.addRoundKey(c.roundKey(0))

	s.store(dst)
}

func (c *Cipher) roundKey(round int) []uint32 {
	return c.schedule[4*round : 4*round+4]
}

func checkBlocks(dst, src []byte) {
	if len(src) < BlockSize {
		panic("aes: input not full block")
	}

	if len(dst) < BlockSize {
		panic("aes: output not full block")
	}
}
