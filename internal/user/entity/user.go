package entity

import "time"

// User represents an account row in the `users` table.
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	FullName     string    `db:"full_name"`
	PasswordHash string    `db:"password_hash"`
	Disabled     bool      `db:"disabled"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// UserOut is the public projection of a user; it never carries the hash.
type UserOut struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Disabled bool   `json:"disabled"`
}

// Out returns the public projection of u.
func (u *User) Out() UserOut {
	return UserOut{ID: u.ID, Username: u.Username, FullName: u.FullName, Disabled: u.Disabled}
}
