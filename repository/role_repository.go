package repository

import (
	"context"

	"github.com/akinalp/mqvi-bans/models"
)

// RoleRepository, rol veritabanı işlemleri için interface.
type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error

	// GetByMember, üyenin guild'deki rollerini döner. @everyone rolü (id == guild_id)
	// varsa her zaman dahildir.
	GetByMember(ctx context.Context, guildID, userID string) ([]models.Role, error)

	AssignToMember(ctx context.Context, guildID, userID, roleID string) error
}
