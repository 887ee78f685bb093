package aes

import "github.com/idelchi/gocrypt/internal/gf"

// state is the 4x4 byte grid of one block, indexed [row][column].
// Input byte i lands at row i%4, column i/4.
type state [4][4]byte

func load(src []byte) state {
	var s state

	for i := range BlockSize {
		s[i%4][i/4] = src[i]
	}

	return s
}

func (s *state) store(dst []byte) {
	for i := range BlockSize {
		dst[i] = s[i%4][i/4]
	}
}

// addRoundKey XORs column c with word c of the round key.
func (s *state) addRoundKey(words []uint32) {
	for c := range 4 {
		w := words[c]
		s[0][c] ^= byte(w >> 24)
		s[1][c] ^= byte(w >> 16)
		s[2][c] ^= byte(w >> 8)
		s[3][c] ^= byte(w)
	}
}

func (s *state) subBytes() {
	for r := range 4 {
		for c := range 4 {
			s[r][c] = sbox[s[r][c]]
		}
	}
}

func (s *state) invSubBytes() {
	for r := range 4 {
		for c := range 4 {
			s[r][c] = invSbox[s[r][c]]
		}
	}
}

// shiftRows rotates row r left by r positions.
func (s *state) shiftRows() {
	for r := 1; r < 4; r++ {
		row := s[r]
		for c := range 4 {
			s[r][c] = row[(c+r)%4]
		}
	}
}

// invShiftRows rotates row r right by r positions.
func (s *state) invShiftRows() {
	for r := 1; r < 4; r++ {
		row := s[r]
		for c := range 4 {
			s[r][(c+r)%4] = row[c]
		}
	}
}

// mixColumns multiplies every column by the circulant matrix (02 03 01 01).
func (s *state) mixColumns() {
	for c := range 4 {
		a0, a1, a2, a3 := s[0][c], s[1][c], s[2][c], s[3][c]

		s[0][c] = gf.Mul8(a0, 2) ^ gf.Mul8(a1, 3) ^ a2 ^ a3
		s[1][c] = a0 ^ gf.Mul8(a1, 2) ^ gf.Mul8(a2, 3) ^ a3
		s[2][c] = a0 ^ a1 ^ gf.Mul8(a2, 2) ^ gf.Mul8(a3, 3)
		s[3][c] = gf.Mul8(a0, 3) ^ a1 ^ a2 ^ gf.Mul8(a3, 2)
	}
}

// invMixColumns multiplies every column by the circulant matrix (0e 0b 0d 09).
func (s *state) invMixColumns() {
	for c := range 4 {
		a0, a1, a2, a3 := s[0][c], s[1][c], s[2][c], s[3][c]

		s[0][c] = gf.Mul8(a0, 0x0e) ^ gf.Mul8(a1, 0x0b) ^ gf.Mul8(a2, 0x0d) ^ gf.Mul8(a3, 0x09)
		s[1][c] = gf.Mul8(a0, 0x09) ^ gf.Mul8(a1, 0x0e) ^ gf.Mul8(a2, 0x0b) ^ gf.Mul8(a3, 0x0d)
		s[2][c] = gf.Mul8(a0, 0x0d) ^ gf.Mul8(a1, 0x09) ^ gf.Mul8(a2, 0x0e) ^ gf.Mul8(a3, 0x0b)
		s[3][c] = gf.Mul8(a0, 0x0b) ^ gf.Mul8(a1, 0x0d) ^ gf.Mul8(a2, 0x09) ^ gf.Mul8(a3, 0x0e)
	}
}
