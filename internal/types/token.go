package types

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims represents the claims in a JWT token. The subject carries the
// user id; UserID is filled from it after validation.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID   uuid.UUID `json:"-"`
	Username string    `json:"username"`
}
