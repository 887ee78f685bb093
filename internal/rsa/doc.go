// Package rsa implements RSA with OAEP padding (SHA-256, MGF1) on math/big:
// Miller-Rabin primality testing, key generation, and chunked encryption
// of messages of any length.
package rsa
