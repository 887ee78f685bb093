package encryption

// Result carries everything an encryption hands back to its caller.
// Fields a mode does not use are nil: ECB has no IV, only GCM has a tag.
type Result struct {
	// Encrypted payload
	Ciphertext []byte

	// Freshly generated key
	Key []byte

	// CBC IV or GCM nonce
	IV []byte

	// GCM authentication tag
	Tag []byte
}
