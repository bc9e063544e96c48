package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims is the JWT payload for admin bearer tokens. Claims are never
// trusted on their own: verification re-fetches the admin record so password
// changes and deletions take effect immediately.
type TokenClaims struct {
	AdminID  int64  `json:"admin_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
