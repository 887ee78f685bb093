// Package encryption provides the AES modes of operation: ECB, CBC and GCM.
// ECB and CBC pad with PKCS#7; GCM is a CTR keystream authenticated with GHASH.
// Every mode streams from an io.Reader, holding at most one block of state
// plus a read buffer, so inputs of any size are processed incrementally.
package encryption
