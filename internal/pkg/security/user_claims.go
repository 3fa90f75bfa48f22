package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	JWTSecret         = "murmur_dev_secret_2026"
	JWTExpirationTime = 72 * time.Hour
)

type UserClaims struct {
	UserID  uint64   `json:"user_id"`
	IsAdmin bool     `json:"is_admin"`
	jwt.RegisteredClaims
}
