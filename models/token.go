package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims, access token payload'ı. Token'lar auth servisi tarafından
// üretilir; bu servis sadece doğrular.
type TokenClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
