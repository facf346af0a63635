// Package services, iş mantığı katmanını barındırır.
//
// Her servis bir interface + private struct + constructor üçlüsüdür.
// Handler'lar sadece interface'leri bilir; dependency'ler constructor
// injection ile verilir (bkz. init_services.go).
package services

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/akinalp/mqvi-bans/models"
	"github.com/akinalp/mqvi-bans/pkg"
)

// AuthService, access token doğrulaması.
// Token üretimi (login/refresh) kimlik servisinin işidir; bu servis sadece
// imzayı ve süreyi kontrol eder.
type AuthService interface {
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)
}

type authService struct {
	jwtSecret []byte
}

// NewAuthService, constructor.
func NewAuthService(jwtSecret string) AuthService {
	return &authService{jwtSecret: []byte(jwtSecret)}
}

func (s *authService) ValidateAccessToken(tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("%w: invalid token claims", pkg.ErrUnauthorized)
	}

	return claims, nil
}
