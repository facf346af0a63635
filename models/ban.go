// Package models — Ban (yasaklama) domain modeli.
//
// Ban sistemi nasıl çalışır?
//  1. Moderatör (BAN_MEMBERS) bir kullanıcıyı banlar → üyelik silinir + bans kaydı oluşur
//  2. Kullanıcı kendini banlayabilir (@me) → executor_id == user_id olan "self-ban"
//  3. Self-ban'lar moderatörlerden gizlenir: listede görünmez, tekil sorguda ve
//     unban'da "unknown ban" döner. Moderatör bir kullanıcının kendini banladığını
//     asla doğrulayamamalı (victim chasing).
//  4. Banlı kullanıcı guild'e tekrar katılamaz (self-ban dahil)
//  5. Unban kaydı siler; self-ban'ın unban yolu yoktur
package models

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// MaxBanReasonLength, ban sebebi için rune limiti.
const MaxBanReasonLength = 512

// MaxDeleteMessageDays, delete_message_days için üst sınır.
const MaxDeleteMessageDays = 7

// Ban, registry görünümüdür: ip dahil tüm alanlar.
//
// IP bir moderasyon sırrıdır; json:"-" ile hiçbir response'a serialize edilmez.
// Dışarıya dönen her projeksiyon (BanModeratorView, BanSummary) ayrı tiptir.
type Ban struct {
	ID         string    `json:"id"`
	GuildID    string    `json:"guild_id"`
	UserID     string    `json:"user_id"`
	ExecutorID string    `json:"executor_id"`
	IP         string    `json:"-"`
	Reason     *string   `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsSelfBan, kullanıcının kendini banlayıp banlamadığını döner.
func (b *Ban) IsSelfBan() bool {
	return b.UserID == b.ExecutorID
}

// ModeratorView, ip alanı çıkarılmış projeksiyonu döner.
func (b *Ban) ModeratorView() BanModeratorView {
	return BanModeratorView{
		ID:         b.ID,
		GuildID:    b.GuildID,
		UserID:     b.UserID,
		ExecutorID: b.ExecutorID,
		Reason:     b.Reason,
		CreatedAt:  b.CreatedAt,
	}
}

// BanModeratorView, BAN_MEMBERS sahibi moderatöre dönen tekil ban görünümü.
type BanModeratorView struct {
	ID         string    `json:"id"`
	GuildID    string    `json:"guild_id"`
	UserID     string    `json:"user_id"`
	ExecutorID string    `json:"executor_id"`
	Reason     *string   `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}

// BanSummary, ban listesindeki tek eleman: {user, reason}.
type BanSummary struct {
	User   PublicUser `json:"user"`
	Reason *string    `json:"reason"`
}

// BanCreateRequest, PUT /bans/{userId} ve PUT /bans/@me body'si.
//
// DeleteMessageDays kabul edilir ve doğrulanır ama bu serviste etkisi yoktur —
// mesaj temizliği mesaj servisinin işidir.
type BanCreateRequest struct {
	Reason            *string `json:"reason"`
	DeleteMessageDays *int    `json:"delete_message_days"`
}

// Validate, BanCreateRequest kontrolü.
func (r *BanCreateRequest) Validate() error {
	if r.Reason != nil && utf8.RuneCountInString(*r.Reason) > MaxBanReasonLength {
		return fmt.Errorf("ban reason must be at most %d characters", MaxBanReasonLength)
	}
	if r.DeleteMessageDays != nil && (*r.DeleteMessageDays < 0 || *r.DeleteMessageDays > MaxDeleteMessageDays) {
		return fmt.Errorf("delete_message_days must be between 0 and %d", MaxDeleteMessageDays)
	}
	return nil
}

// CreateBanInput, handler'dan service'e geçen ban oluşturma parametreleri.
// IP handler katmanında request'ten çıkarılır.
type CreateBanInput struct {
	TargetID          string
	Reason            *string
	DeleteMessageDays *int
	IP                string
}

// BanEventData, GUILD_BAN_ADD / GUILD_BAN_REMOVE payload'ı.
type BanEventData struct {
	GuildID string     `json:"guild_id"`
	User    PublicUser `json:"user"`
}
