package entity

import (
	"time"
)

// User is the aggregate root for the credential domain.
// Password holds a bcrypt hash; the plaintext never reaches this struct.
type User struct {
	ID        string
	Username  string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
