package rsa

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"io"
)

// lHash is the SHA-256 of the empty label.
//
//nolint:gochecknoglobals
var lHash = sha256.Sum256(nil)

// mgf1XOR XORs out with MGF1-SHA256(seed) of len(out) bytes:
// SHA-256(seed || be32(counter)) for counter = 0, 1, ..., truncated.
func mgf1XOR(out, seed []byte) {
	var (
		counter [4]byte
		digest  []byte
	)

	hash := sha256.New()

	for done := 0; done < len(out); {
		hash.Reset()
		hash.Write(seed)
		hash.Write(counter[:])
		digest = hash.Sum(digest[:0])

		done += subtle.XORBytes(out[done:], out[done:], digest)

		binary.BigEndian.PutUint32(counter[:], binary.BigEndian.Uint32(counter[:])+1)
	}
}

// mgf1 returns maskLen bytes of MGF1-SHA256(seed).
func mgf1(seed []byte, maskLen int) []byte {
	mask := make([]byte, maskLen)
	mgf1XOR(mask, seed)

	return mask
}

// oaepPad encodes msg into a k-byte block: 0x00 || maskedSeed || maskedDB,
// where DB = lHash || PS || 0x01 || msg.
func oaepPad(random io.Reader, msg []byte, k int) ([]byte, error) {
	if len(msg) > k-2*hashSize-2 {
		return nil, fmt.Errorf("%w: %d bytes, at most %d fit", ErrMessageTooLong, len(msg), k-2*hashSize-2)
	}

	em := make([]byte, k)
	seed := em[1 : 1+hashSize]
	db := em[1+hashSize:]

	copy(db, lHash[:])
	db[len(db)-len(msg)-1] = 0x01
	copy(db[len(db)-len(msg):], msg)

	if _, err := io.ReadFull(random, seed); err != nil {
		return nil, fmt.Errorf("reading OAEP seed: %w", err)
	}

	mgf1XOR(db, seed)
	mgf1XOR(seed, db)

	return em, nil
}

// oaepUnpad decodes a k-byte block. Every check runs on every input and the
// outcome is reported only as ErrDecryption, so a failure reveals nothing about
// which check failed. The block is modified in place.
func oaepUnpad(em []byte, k int) ([]byte, error) {
	if len(em) != k || k < 2*hashSize+2 {
		return nil, ErrDecryption
	}

	firstByteIsZero := subtle.ConstantTimeByteEq(em[0], 0)

	seed := em[1 : 1+hashSize]
	db := em[1+hashSize:]

	mgf1XOR(seed, db)
	mgf1XOR(db, seed)

	lHashMatches := subtle.ConstantTimeCompare(db[:hashSize], lHash[:])

	// Scan PS for the 0x01 separator: every byte before it must be zero.
	var lookingForIndex, index, invalid int

	lookingForIndex = 1
	rest := db[hashSize:]

	for i := range rest {
		equals0 := subtle.ConstantTimeByteEq(rest[i], 0)
		equals1 := subtle.ConstantTimeByteEq(rest[i], 1)
		index = subtle.ConstantTimeSelect(lookingForIndex&equals1, i, index)
		lookingForIndex = subtle.ConstantTimeSelect(equals1, 0, lookingForIndex)
		invalid = subtle.ConstantTimeSelect(lookingForIndex&^equals0, 1, invalid)
	}

	if firstByteIsZero&lHashMatches&^invalid&^lookingForIndex != 1 {
		return nil, ErrDecryption
	}

	return rest[index+1:], nil
}
