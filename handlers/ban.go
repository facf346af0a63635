package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/akinalp/mqvi-bans/models"
	"github.com/akinalp/mqvi-bans/pkg"
	"github.com/akinalp/mqvi-bans/pkg/ratelimit"
	"github.com/akinalp/mqvi-bans/services"
)

// maxBanBodyBytes, ban body'si için üst sınır (reason 512 rune + alan adları).
const maxBanBodyBytes = 16 << 10

// BanHandler, /api/guilds/{guildId}/bans endpoint'leri.
//
// Tüm route'lar Auth → GuildMembership → Permission.Load zincirinden geçer;
// handler context'teki Authorization'ı service'e aynen iletir.
type BanHandler struct {
	banService services.BanService
	limiter    *ratelimit.ActionRateLimiter
	ips        *ratelimit.IPResolver
}

// NewBanHandler, constructor. limiter nil olabilir (rate limit kapalı);
// ips nil ise ban ip'si her zaman RemoteAddr'dan alınır.
func NewBanHandler(banService services.BanService, limiter *ratelimit.ActionRateLimiter, ips *ratelimit.IPResolver) *BanHandler {
	return &BanHandler{banService: banService, limiter: limiter, ips: ips}
}

// List godoc
// GET /api/guilds/{guildId}/bans
// Guild'in ban listesi: [{user, reason}]. BAN_MEMBERS gerektirir.
func (h *BanHandler) List(w http.ResponseWriter, r *http.Request) {
	auth, ok := authorizationFrom(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "authorization not found in context")
		return
	}

	bans, err := h.banService.List(r.Context(), auth)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, bans)
}

// Get godoc
// GET /api/guilds/{guildId}/bans/{userId}
// Tekil ban (ip alanı olmadan). BAN_MEMBERS gerektirir.
func (h *BanHandler) Get(w http.ResponseWriter, r *http.Request) {
	auth, ok := authorizationFrom(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "authorization not found in context")
		return
	}

	ban, err := h.banService.Get(r.Context(), auth, r.PathValue("userId"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, ban)
}

// Create godoc
// PUT /api/guilds/{guildId}/bans/{userId}
// Body: { "reason"?: string, "delete_message_days"?: 0..7 }
// Hedefi guild'den çıkarır ve banlar. BAN_MEMBERS gerektirir.
func (h *BanHandler) Create(w http.ResponseWriter, r *http.Request) {
	auth, ok := authorizationFrom(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "authorization not found in context")
		return
	}

	input, err := h.decodeBanInput(w, r)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	input.TargetID = r.PathValue("userId")

	if err := h.allow(w, auth.CallerID); err != nil {
		pkg.Error(w, err)
		return
	}

	ban, err := h.banService.Create(r.Context(), auth, input)
	if err != nil {
		h.settle(auth.CallerID, err)
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, ban)
}

// CreateSelf godoc
// PUT /api/guilds/{guildId}/bans/@me
// Çağıranın kendini banlaması. Yetki gerekmez; guild sahibi kullanamaz.
func (h *BanHandler) CreateSelf(w http.ResponseWriter, r *http.Request) {
	auth, ok := authorizationFrom(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "authorization not found in context")
		return
	}

	input, err := h.decodeBanInput(w, r)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	input.TargetID = auth.CallerID

	if err := h.allow(w, auth.CallerID); err != nil {
		pkg.Error(w, err)
		return
	}

	ban, err := h.banService.CreateSelf(r.Context(), auth, input)
	if err != nil {
		h.settle(auth.CallerID, err)
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, ban)
}

// Revoke godoc
// DELETE /api/guilds/{guildId}/bans/{userId}
// Ban'ı kaldırır → 204. Self-ban'lar için 404 unknown ban.
func (h *BanHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	auth, ok := authorizationFrom(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "authorization not found in context")
		return
	}
	if err := h.allow(w, auth.CallerID); err != nil {
		pkg.Error(w, err)
		return
	}

	if err := h.banService.Revoke(r.Context(), auth, r.PathValue("userId")); err != nil {
		h.settle(auth.CallerID, err)
		pkg.Error(w, err)
		return
	}

	pkg.NoContent(w)
}

// allow, aktör bazlı rate limit. Limit aşıldıysa Retry-After header'ını yazar
// ve pkg.ErrRateLimited döner (429).
func (h *BanHandler) allow(w http.ResponseWriter, actorID string) error {
	if h.limiter == nil || h.limiter.Allow(actorID) {
		return nil
	}

	retryAfter := h.limiter.RetryAfterSeconds(actorID)
	w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
	return fmt.Errorf("%w: too many moderation actions, please try again in %s",
		pkg.ErrRateLimited, ratelimit.FormatRetryMessage(retryAfter))
}

// settle, service hiçbir şey değiştirmeden reddettiyse aksiyonu bütçeye iade eder.
// ErrCollaborator'da kayıt commit edilmiş olabilir; sayılı kalır.
func (h *BanHandler) settle(actorID string, err error) {
	if h.limiter == nil || errors.Is(err, pkg.ErrCollaborator) {
		return
	}
	for _, rejected := range []error{
		pkg.ErrBadRequest,
		pkg.ErrForbidden,
		pkg.ErrUnknownBan,
		pkg.ErrUnknownUser,
		pkg.ErrAlreadyExists,
	} {
		if errors.Is(err, rejected) {
			h.limiter.Refund(actorID)
			return
		}
	}
}

// decodeBanInput, body'yi parse eder ve çağıranın ip'sini ekler.
// Body tamamen boş olabilir; tüm alanlar opsiyoneldir.
func (h *BanHandler) decodeBanInput(w http.ResponseWriter, r *http.Request) (models.CreateBanInput, error) {
	var req models.BanCreateRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxBanBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return models.CreateBanInput{}, fmt.Errorf("%w: invalid request body", pkg.ErrBadRequest)
	}

	return models.CreateBanInput{
		Reason:            req.Reason,
		DeleteMessageDays: req.DeleteMessageDays,
		IP:                h.ips.ClientIP(r),
	}, nil
}
