package token

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// Length is the number of characters in a generated token.
const Length = 64

// Alphabet is the set of characters a token is drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Generate generates a cryptographically secure random token of Length characters.
func Generate() (string, error) {
	return GenerateWithLength(Length)
}

// GenerateWithLength generates an alphanumeric token with the specified length.
func GenerateWithLength(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("token length must be positive")
	}

	limit := big.NewInt(int64(len(Alphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		buf[i] = Alphabet[n.Int64()]
	}
	return string(buf), nil
}

// ValidFormat reports whether s looks like a token produced by Generate.
// It is used to reject garbage before it reaches the store.
func ValidFormat(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
