// Package token provides access token generation and hashing utilities.
//
// Token Format:
//
//   - 64 characters drawn from [A-Za-z0-9] using crypto/rand
//   - About 381 bits of entropy
//
// Only the SHA-256 hash of a token is persisted. The plaintext is handed
// to the client once, when the token is issued.
package token
