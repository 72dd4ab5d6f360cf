package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Created      time.Time `json:"created"`
	Changed      time.Time `json:"changed"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
}
