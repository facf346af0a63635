// Package handlers, HTTP handler'larını barındırır.
//
// Handler'ın işi: request'i parse et → service'i çağır → response yaz.
// İş kuralları (yetki, sahiplik, self-ban gizliliği) service katmanındadır.
package handlers

import (
	"net/http"

	"github.com/akinalp/mqvi-bans/models"
)

// contextKey, context'te değer taşımak için kullanılan key tipi.
// Ayrı bir tip kullanmak başka paketlerin string key'leriyle çakışmayı önler.
type contextKey string

// UserContextKey, AuthMiddleware'in doğruladığı *models.User.
const UserContextKey contextKey = "user"

// GuildIDContextKey, GuildMembershipMiddleware'in doğruladığı guild ID.
const GuildIDContextKey contextKey = "guild_id"

// AuthorizationContextKey, PermissionMiddleware.Load'un çözdüğü *models.Authorization.
const AuthorizationContextKey contextKey = "authorization"

func userFrom(r *http.Request) (*models.User, bool) {
	u, ok := r.Context().Value(UserContextKey).(*models.User)
	return u, ok && u != nil
}

func authorizationFrom(r *http.Request) (*models.Authorization, bool) {
	a, ok := r.Context().Value(AuthorizationContextKey).(*models.Authorization)
	return a, ok && a != nil
}
