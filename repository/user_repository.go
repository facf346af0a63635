package repository

import (
	"context"

	"github.com/akinalp/mqvi-bans/models"
)

// UserRepository, kullanıcı okuma/yazma işlemleri.
// Kullanıcı kaydı ve profil düzenleme bu servisin işi değildir; Create seed
// ve testler içindir.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
}
