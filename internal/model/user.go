package model

import "time"

// User represents an application user record as stored in the `users`
// table.  The password hash is a bcrypt digest and is never serialized
// into API responses.
type User struct {
	ID           uint64    `json:"user_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}
