// Package middleware, HTTP request pipeline'ına eklenen ara katmanları barındırır.
//
// Go'da middleware bir fonksiyondur: func(next http.Handler) http.Handler
// Middleware kendi işini yapar (ör: token doğrula), sonra next'i çağırır.
// Hata varsa next çağrılmaz → request burada durur.
//
// Ban route'larının zinciri:
//
//	AuthMiddleware → GuildMembershipMiddleware → PermissionMiddleware.Load → Handler
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/akinalp/mqvi-bans/handlers"
	"github.com/akinalp/mqvi-bans/pkg"
	"github.com/akinalp/mqvi-bans/repository"
	"github.com/akinalp/mqvi-bans/services"
)

// AuthMiddleware, JWT token doğrulama middleware'ı.
type AuthMiddleware struct {
	authService services.AuthService
	userRepo    repository.UserRepository
}

// NewAuthMiddleware, constructor.
func NewAuthMiddleware(authService services.AuthService, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		userRepo:    userRepo,
	}
}

// Require, "Authorization: Bearer <token>" zorunlu kılar.
// Token geçerliyse kullanıcı DB'den yüklenip context'e konur.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "authorization header required")
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "invalid authorization format, use: Bearer <token>")
			return
		}

		claims, err := m.authService.ValidateAccessToken(tokenString)
		if err != nil {
			pkg.Error(w, err)
			return
		}

		// Token geçerli ama kullanıcı silinmiş olabilir
		user, err := m.userRepo.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, pkg.ErrNotFound) {
				pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found")
				return
			}
			pkg.Error(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), handlers.UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
