// Package main — Service katmanı başlatma.
package main

import (
	"time"

	"github.com/akinalp/mqvi-bans/services"
	"github.com/akinalp/mqvi-bans/ws"
)

// Services, service instance'larını tutan container struct.
type Services struct {
	Auth       services.AuthService
	Permission services.PermissionService
	Users      services.UserDirectory
	Membership services.MembershipService
	Ban        services.BanService
}

// initServices, servisleri dependency sırasıyla oluşturur:
// directory ve membership önce, ban service en son (ikisine de bağımlı).
func initServices(repos *Repositories, events ws.GuildPublisher, jwtSecret string, profileTTL time.Duration) *Services {
	users := services.NewUserDirectory(repos.User, profileTTL)
	membership := services.NewMembershipService(repos.Store, events)

	return &Services{
		Auth:       services.NewAuthService(jwtSecret),
		Permission: services.NewPermissionService(repos.Guild, repos.Role),
		Users:      users,
		Membership: membership,
		Ban:        services.NewBanService(repos.Store, users, membership, events),
	}
}
