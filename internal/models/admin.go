package models

import "time"

// Admin is an administrative account. Usernames are unique
// case-insensitively; PasswordHash is a bcrypt hash and must never leave the
// service layer.
type Admin struct {
	ID           int64
	Username     string
	PasswordHash string
	Email        string
	Role         string // defaults to "admin"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
