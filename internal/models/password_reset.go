package models

import "time"

// PasswordReset is a single-use reset token. At most one live (unexpired)
// token exists per username; requesting a new one deletes the old.
type PasswordReset struct {
	ID        int64
	Username  string
	Token     string // 256 bits of entropy, hex-encoded
	ExpiresAt time.Time
	CreatedAt time.Time
}
