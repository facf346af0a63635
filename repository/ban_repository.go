package repository

import (
	"context"

	"github.com/akinalp/mqvi-bans/models"
)

// BanRepository, ban veritabanı işlemleri için interface.
// Tüm operasyonlar guild-scoped: guildID parametresi zorunlu.
//
// Okuma metodları sadece "görünür" ban'ları döner: self-ban'lar (user_id ==
// executor_id) listede yer almaz, tekil okumada ve silmede pkg.ErrUnknownBan
// döner; kayıt hiç yokmuş gibi. Çağıranın iki durumu ayırt edeceği bir yol yoktur.
type BanRepository interface {
	// ListVisible, guild'deki self-ban olmayan ban'ları oluşturulma sırasıyla döner.
	ListVisible(ctx context.Context, guildID string) ([]models.Ban, error)

	// GetVisible, tekil ban. Yoksa veya self-ban ise pkg.ErrUnknownBan.
	GetVisible(ctx context.Context, guildID, userID string) (*models.Ban, error)

	// Exists, self-ban dahil herhangi bir ban var mı? (join kontrolü için)
	Exists(ctx context.Context, guildID, userID string) (bool, error)

	// Create, yeni ban kaydı. ID boşsa üretilir, CreatedAt DB'den döner.
	// Aynı (guild, user) için ikinci kayıt pkg.ErrAlreadyExists döner.
	Create(ctx context.Context, ban *models.Ban) error

	// Delete, moderatör kaynaklı ban'ı siler. Kayıt yoksa veya self-ban ise
	// pkg.ErrUnknownBan; self-ban bu yoldan silinemez.
	Delete(ctx context.Context, guildID, userID string) error
}

// IPSealer, ban ip alanını at-rest şifreleyen bileşen (pkg/crypto.Sealer).
type IPSealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}
