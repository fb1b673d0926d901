package token

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Hash computes the SHA-256 hash of a code.
//
// The returned hash is hex encoded for storage.
func Hash(code string) string {
	h := sha256.Sum256([]byte(code))
	return hex.EncodeToString(h[:])
}

// Verify verifies a code against an expected hash.
//
// Uses constant-time comparison to prevent timing attacks.
func Verify(code, expectedHash string) bool {
	actualHash := Hash(code)
	return subtle.ConstantTimeCompare([]byte(actualHash), []byte(expectedHash)) == 1
}
