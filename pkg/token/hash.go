package token

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes the SHA-256 hash of a token.
//
// The returned hash is hex encoded for storage.
func Hash(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
