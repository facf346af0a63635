package repository

import (
	"context"

	"github.com/akinalp/mqvi-bans/models"
)

// GuildRepository, guild ve üyelik işlemleri için interface.
type GuildRepository interface {
	// ─── Guild ───
	Create(ctx context.Context, guild *models.Guild) error
	GetByID(ctx context.Context, guildID string) (*models.Guild, error)

	// ─── Members ───
	AddMember(ctx context.Context, guildID, userID string) error

	// RemoveMember, üyeliği ve üyeye atanmış rolleri siler.
	// Üye değilse pkg.ErrNotFound.
	RemoveMember(ctx context.Context, guildID, userID string) error

	IsMember(ctx context.Context, guildID, userID string) (bool, error)

	// GetMemberIDs, event broadcast için guild'deki tüm üye ID'lerini döner.
	GetMemberIDs(ctx context.Context, guildID string) ([]string, error)
}
