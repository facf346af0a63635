package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/akinalp/mqvi-bans/models"
	"github.com/akinalp/mqvi-bans/pkg"
	"github.com/akinalp/mqvi-bans/repository"
	"github.com/akinalp/mqvi-bans/ws"
)

// MembershipService, guild üyeliği iş mantığı.
//
// Ban akışı üyeliği kendi transaction'ı içinde kaldırır (RemoveMember'a tx
// Store verilir), bildirimler ise commit'ten sonra NotifyRemoved ile gider.
type MembershipService interface {
	// Join, kullanıcıyı guild'e ekler. Herhangi bir ban (self-ban dahil) varsa
	// pkg.ErrForbidden döner.
	Join(ctx context.Context, guildID, userID string) (*models.Guild, error)

	// RemoveMember, üyeliği verilen Store üzerinde siler. Kullanıcı üye
	// değilse (false, nil); önleyici ban'lar için bu bir hata değildir.
	RemoveMember(ctx context.Context, store repository.Store, guildID, userID string) (bool, error)

	// NotifyRemoved, GUILD_MEMBER_REMOVE'u guild'e, GUILD_DELETE'i çıkarılan kullanıcıya yayınlar.
	NotifyRemoved(ctx context.Context, guildID string, user models.PublicUser) error
}

type membershipService struct {
	store  repository.Store
	events ws.GuildPublisher
}

// NewMembershipService, constructor.
func NewMembershipService(store repository.Store, events ws.GuildPublisher) MembershipService {
	return &membershipService{store: store, events: events}
}

func (s *membershipService) Join(ctx context.Context, guildID, userID string) (*models.Guild, error) {
	var guild *models.Guild

	// Ban kontrolü ve insert aynı transaction'da: kontrol ile ekleme arasına
	// eşzamanlı bir ban giremez.
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		g, err := tx.Guilds().GetByID(ctx, guildID)
		if err != nil {
			if errors.Is(err, pkg.ErrNotFound) {
				return fmt.Errorf("%w: unknown guild", pkg.ErrNotFound)
			}
			return err
		}

		banned, err := tx.Bans().Exists(ctx, guildID, userID)
		if err != nil {
			return err
		}
		if banned {
			return fmt.Errorf("%w: you are banned from this guild", pkg.ErrForbidden)
		}

		if err := tx.Guilds().AddMember(ctx, guildID, userID); err != nil {
			return err
		}
		guild = g
		return nil
	})
	if err != nil {
		return nil, storageErr("join guild", err)
	}

	return guild, nil
}

func (s *membershipService) RemoveMember(ctx context.Context, store repository.Store, guildID, userID string) (bool, error) {
	if err := store.Guilds().RemoveMember(ctx, guildID, userID); err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *membershipService) NotifyRemoved(ctx context.Context, guildID string, user models.PublicUser) error {
	if err := s.events.PublishToGuild(ctx, guildID, ws.MemberRemoveEvent(guildID, user)); err != nil {
		return fmt.Errorf("publish %s: %w", ws.OpGuildMemberRemove, err)
	}
	if err := s.events.PublishToUser(ctx, user.ID, ws.GuildDeleteEvent(guildID)); err != nil {
		return fmt.Errorf("publish %s: %w", ws.OpGuildDelete, err)
	}
	return nil
}
