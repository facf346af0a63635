package handlers

import (
	"net/http"

	"github.com/akinalp/mqvi-bans/pkg"
	"github.com/akinalp/mqvi-bans/services"
)

// MemberHandler, üyelik endpoint'leri.
type MemberHandler struct {
	membershipService services.MembershipService
}

// NewMemberHandler, constructor.
func NewMemberHandler(membershipService services.MembershipService) *MemberHandler {
	return &MemberHandler{membershipService: membershipService}
}

// Join godoc
// PUT /api/guilds/{guildId}/members/@me
// Guild'e katılır. Banlı kullanıcı (self-ban dahil) 403 alır.
func (h *MemberHandler) Join(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	guild, err := h.membershipService.Join(r.Context(), r.PathValue("guildId"), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, guild)
}
