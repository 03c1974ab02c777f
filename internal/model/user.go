package model

import "time"

// User represents an application user record as stored in the `users`
// table. Accounts are created at registration and never mutated or
// deleted afterwards. The password is stored only as a bcrypt hash;
// the plaintext never leaves the registration and login handlers.
type User struct {
	ID           uint64    // users.id
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	Email        string    // users.email (unique)
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
}
