package middleware

import (
	"context"
	"net/http"

	"github.com/akinalp/mqvi-bans/handlers"
	"github.com/akinalp/mqvi-bans/models"
	"github.com/akinalp/mqvi-bans/pkg"
	"github.com/akinalp/mqvi-bans/repository"
)

// GuildMembershipMiddleware, URL'deki {guildId} için üyelik kontrolü.
// AuthMiddleware'den SONRA çalışır. Üye değilse 403; üyeyse guildID context'e eklenir.
type GuildMembershipMiddleware struct {
	guildRepo repository.GuildRepository
}

// NewGuildMembershipMiddleware, constructor.
func NewGuildMembershipMiddleware(guildRepo repository.GuildRepository) *GuildMembershipMiddleware {
	return &GuildMembershipMiddleware{guildRepo: guildRepo}
}

// Require, guild üyeliği zorunlu kılan middleware.
func (m *GuildMembershipMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := r.Context().Value(handlers.UserContextKey).(*models.User)
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
			return
		}

		guildID := r.PathValue("guildId")
		if guildID == "" {
			pkg.ErrorWithMessage(w, http.StatusBadRequest, "guildId is required")
			return
		}

		isMember, err := m.guildRepo.IsMember(r.Context(), guildID, user.ID)
		if err != nil {
			pkg.ErrorWithMessage(w, http.StatusInternalServerError, "failed to check guild membership")
			return
		}
		if !isMember {
			pkg.ErrorWithMessage(w, http.StatusForbidden, "you are not a member of this guild")
			return
		}

		ctx := context.WithValue(r.Context(), handlers.GuildIDContextKey, guildID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
