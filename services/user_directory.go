package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akinalp/mqvi-bans/models"
	"github.com/akinalp/mqvi-bans/pkg"
	"github.com/akinalp/mqvi-bans/pkg/cache"
	"github.com/akinalp/mqvi-bans/repository"
)

// UserDirectory, kullanıcıların public profillerini çözer.
//
// Ban listesi her kayıt için profil ister; profiller kısa süreli TTL cache'te
// tutulur. Cache sadece okuma içindir; profil değişikliği en geç TTL sonunda
// yansır.
type UserDirectory interface {
	// GetPublicProfile, kullanıcı yoksa pkg.ErrUnknownUser döner.
	GetPublicProfile(ctx context.Context, userID string) (*models.PublicUser, error)
}

type userDirectory struct {
	userRepo repository.UserRepository
	cache    *cache.TTLCache[string, models.PublicUser]
}

// NewUserDirectory, constructor. ttl <= 0 ise cache kapalıdır.
func NewUserDirectory(userRepo repository.UserRepository, ttl time.Duration) UserDirectory {
	d := &userDirectory{userRepo: userRepo}
	if ttl > 0 {
		d.cache = cache.New[string, models.PublicUser](ttl, ttl*2)
	}
	return d
}

func (d *userDirectory) GetPublicProfile(ctx context.Context, userID string) (*models.PublicUser, error) {
	if d.cache != nil {
		if p, ok := d.cache.Get(userID); ok {
			return &p, nil
		}
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, pkg.ErrUnknownUser
		}
		return nil, fmt.Errorf("%w: load user %s: %v", pkg.ErrCollaborator, userID, err)
	}

	p := user.Public()
	if d.cache != nil {
		d.cache.Set(userID, p)
	}
	return &p, nil
}
