package middleware

import (
	"context"
	"net/http"

	"github.com/akinalp/mqvi-bans/handlers"
	"github.com/akinalp/mqvi-bans/models"
	"github.com/akinalp/mqvi-bans/pkg"
	"github.com/akinalp/mqvi-bans/services"
)

// PermissionMiddleware, kullanıcının guild'deki yetki bağlamını yükler.
//
// AuthMiddleware + GuildMembershipMiddleware'den SONRA çalışır.
type PermissionMiddleware struct {
	permService services.PermissionService
}

// NewPermissionMiddleware, constructor.
func NewPermissionMiddleware(permService services.PermissionService) *PermissionMiddleware {
	return &PermissionMiddleware{permService: permService}
}

// Load, Authorization'ı (caller, guild, effective permissions) context'e koyar
// ama herhangi bir yetki gerektirmez. Ban route'larında karar service'indir:
// @me yolu yetki istemez, sahiplik kuralları hedefe bağlıdır.
func (m *PermissionMiddleware) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := r.Context().Value(handlers.UserContextKey).(*models.User)
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
			return
		}

		guildID, ok := r.Context().Value(handlers.GuildIDContextKey).(string)
		if !ok || guildID == "" {
			pkg.ErrorWithMessage(w, http.StatusBadRequest, "guild context required for permission check")
			return
		}

		auth, err := m.permService.Resolve(r.Context(), user.ID, guildID)
		if err != nil {
			pkg.Error(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), handlers.AuthorizationContextKey, auth)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
