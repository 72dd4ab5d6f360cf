package domain

import (
	"time"

	"github.com/google/uuid"
)

// Access token validity bounds, in seconds.
const (
	MinTokenValiditySeconds = 1
	MaxTokenValiditySeconds = 30 * 24 * 60 * 60 // 2,592,000
)

var timeNow = time.Now

// AccessToken is a bearer credential bound to a user.
//
// Token holds the plaintext only on the value returned at issue time.
// Records loaded from the store carry TokenHash and an empty Token.
type AccessToken struct {
	Token     string    `json:"token"`
	TokenHash string    `json:"-"`
	Created   time.Time `json:"created"`
	Expires   time.Time `json:"expires"`
	UserID    uuid.UUID `json:"user_id"`
}

// IsExpired reports whether the token is past its expiry.
func (t *AccessToken) IsExpired() bool {
	return !timeNow().Before(t.Expires)
}

// ValidityInRange reports whether seconds is an acceptable token lifetime.
func ValidityInRange(seconds int64) bool {
	return seconds >= MinTokenValiditySeconds && seconds <= MaxTokenValiditySeconds
}
