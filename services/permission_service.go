package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/akinalp/mqvi-bans/models"
	"github.com/akinalp/mqvi-bans/pkg"
	"github.com/akinalp/mqvi-bans/repository"
)

// PermissionService, bir request için yetki bağlamını çözümler.
//
// Effective permissions: üyenin tüm rollerinin (@everyone dahil) OR'u.
// Guild sahibi rol fark etmeksizin tüm yetkilere sahiptir (Authorization.Can).
type PermissionService interface {
	Resolve(ctx context.Context, callerID, guildID string) (*models.Authorization, error)
}

type permissionService struct {
	guildRepo repository.GuildRepository
	roleRepo  repository.RoleRepository
}

// NewPermissionService, constructor.
func NewPermissionService(guildRepo repository.GuildRepository, roleRepo repository.RoleRepository) PermissionService {
	return &permissionService{guildRepo: guildRepo, roleRepo: roleRepo}
}

func (s *permissionService) Resolve(ctx context.Context, callerID, guildID string) (*models.Authorization, error) {
	guild, err := s.guildRepo.GetByID(ctx, guildID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown guild", pkg.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: load guild: %v", pkg.ErrCollaborator, err)
	}

	roles, err := s.roleRepo.GetByMember(ctx, guildID, callerID)
	if err != nil {
		return nil, fmt.Errorf("%w: load roles: %v", pkg.ErrCollaborator, err)
	}

	var perms models.Permission
	for _, role := range roles {
		perms |= role.Permissions
	}

	return &models.Authorization{
		CallerID:    callerID,
		Guild:       *guild,
		Permissions: perms,
	}, nil
}
