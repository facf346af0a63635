// Package services — BanService: guild ban yaşam döngüsü.
//
// İki oluşturma yolu vardır:
//   - Create: BAN_MEMBERS sahibi moderatör başka bir kullanıcıyı banlar
//   - CreateSelf: kullanıcı kendini banlar (@me), yetki gerekmez
//
// Self-ban'lar (user_id == executor_id) moderatörlere görünmez. Bu kural
// repository seviyesinde uygulanır: ListVisible / GetVisible / Delete self-ban
// kayıtlarını hiç görmez ve pkg.ErrUnknownBan döner. Servis iki durumu
// ayırt etmez, edemez.
//
// Oluşturma akışı:
//  1. Yetki + girdi kontrolü, hedef profilin çözülmesi (hiçbir şey yazılmadan)
//  2. Tek transaction: üyeliği kaldır (üyeyse) + ban kaydı ekle
//  3. Commit sonrası: GUILD_MEMBER_REMOVE / GUILD_DELETE (üyelik kalktıysa) ve GUILD_BAN_ADD
//
// Event yayını başarısız olursa commit geri alınmaz; hata pkg.ErrCollaborator
// olarak döner ve loglanır.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/akinalp/mqvi-bans/models"
	"github.com/akinalp/mqvi-bans/pkg"
	"github.com/akinalp/mqvi-bans/pkg/logger"
	"github.com/akinalp/mqvi-bans/repository"
	"github.com/akinalp/mqvi-bans/ws"
)

// profileLookupLimit, List sırasında aynı anda çözülen profil sayısı.
const profileLookupLimit = 8

// BanService, ban yaşam döngüsü interface'i.
// Tüm metodlar request başına bir kez çözülen Authorization alır; guild auth.Guild.ID'dir.
type BanService interface {
	// List, moderatörün görebileceği ban'ları {user, reason} olarak döner.
	List(ctx context.Context, auth *models.Authorization) ([]models.BanSummary, error)

	// Get, tekil ban'ın moderatör görünümü (ip yok). Yoksa veya self-ban ise pkg.ErrUnknownBan.
	Get(ctx context.Context, auth *models.Authorization, userID string) (*models.BanModeratorView, error)

	// Create, moderatörün başka bir kullanıcıyı banlaması.
	Create(ctx context.Context, auth *models.Authorization, input models.CreateBanInput) (*models.Ban, error)

	// CreateSelf, çağıranın kendini banlaması.
	CreateSelf(ctx context.Context, auth *models.Authorization, input models.CreateBanInput) (*models.Ban, error)

	// Revoke, moderatör kaynaklı ban'ı kaldırır. Self-ban'lar için pkg.ErrUnknownBan.
	Revoke(ctx context.Context, auth *models.Authorization, userID string) error
}

type banService struct {
	store      repository.Store
	users      UserDirectory
	membership MembershipService
	events     ws.GuildPublisher
	log        *logrus.Entry
}

// NewBanService, constructor.
func NewBanService(
	store repository.Store,
	users UserDirectory,
	membership MembershipService,
	events ws.GuildPublisher,
) BanService {
	return &banService{
		store:      store,
		users:      users,
		membership: membership,
		events:     events,
		log:        logger.For("ban"),
	}
}

func (s *banService) List(ctx context.Context, auth *models.Authorization) ([]models.BanSummary, error) {
	if err := auth.Require(models.PermBanMembers); err != nil {
		return nil, err
	}

	bans, err := s.store.Bans().ListVisible(ctx, auth.Guild.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: list bans: %v", pkg.ErrCollaborator, err)
	}

	// Profiller paralel çözülür; sonuç sırası ban sırasıyla aynı kalır.
	summaries := make([]models.BanSummary, len(bans))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(profileLookupLimit)
	for i := range bans {
		g.Go(func() error {
			profile, err := s.users.GetPublicProfile(gctx, bans[i].UserID)
			if err != nil {
				return fmt.Errorf("resolve banned user %s: %w", bans[i].UserID, err)
			}
			summaries[i] = models.BanSummary{User: *profile, Reason: bans[i].Reason}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, pkg.ErrCollaborator) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", pkg.ErrCollaborator, err)
	}

	return summaries, nil
}

func (s *banService) Get(ctx context.Context, auth *models.Authorization, userID string) (*models.BanModeratorView, error) {
	if err := auth.Require(models.PermBanMembers); err != nil {
		return nil, err
	}

	ban, err := s.store.Bans().GetVisible(ctx, auth.Guild.ID, userID)
	if err != nil {
		return nil, storageErr("get ban", err)
	}

	view := ban.ModeratorView()
	return &view, nil
}

func (s *banService) Create(ctx context.Context, auth *models.Authorization, input models.CreateBanInput) (*models.Ban, error) {
	if err := auth.Require(models.PermBanMembers); err != nil {
		return nil, err
	}
	if err := validateBanInput(input); err != nil {
		return nil, err
	}

	target := input.TargetID
	switch {
	case target == "":
		return nil, fmt.Errorf("%w: target user is required", pkg.ErrBadRequest)
	case target == auth.CallerID && auth.IsOwner():
		return nil, fmt.Errorf("%w: the guild owner cannot ban themselves", pkg.ErrForbidden)
	case target == auth.Guild.OwnerID:
		return nil, fmt.Errorf("%w: the guild owner cannot be banned", pkg.ErrForbidden)
	case target == auth.CallerID:
		// Moderatör yolu executor_id == user_id üretmemeli; kendini banlama @me'den geçer.
		return nil, fmt.Errorf("%w: use @me to ban yourself", pkg.ErrBadRequest)
	}

	return s.create(ctx, auth, target, input)
}

func (s *banService) CreateSelf(ctx context.Context, auth *models.Authorization, input models.CreateBanInput) (*models.Ban, error) {
	if auth.IsOwner() {
		return nil, fmt.Errorf("%w: the guild owner cannot ban themselves", pkg.ErrForbidden)
	}
	if input.TargetID != "" && input.TargetID != auth.CallerID {
		return nil, fmt.Errorf("%w: self-ban target must be the caller", pkg.ErrBadRequest)
	}
	if err := validateBanInput(input); err != nil {
		return nil, err
	}

	return s.create(ctx, auth, auth.CallerID, input)
}

// create, her iki yolun ortak kısmı. executor her zaman çağırandır.
func (s *banService) create(ctx context.Context, auth *models.Authorization, targetID string, input models.CreateBanInput) (*models.Ban, error) {
	guildID := auth.Guild.ID

	profile, err := s.users.GetPublicProfile(ctx, targetID)
	if err != nil {
		return nil, err
	}

	ban := &models.Ban{
		GuildID:    guildID,
		UserID:     targetID,
		ExecutorID: auth.CallerID,
		IP:         input.IP,
		Reason:     input.Reason,
	}

	var removed bool
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		removed, err = s.membership.RemoveMember(ctx, tx, guildID, targetID)
		if err != nil {
			return fmt.Errorf("%w: remove member: %v", pkg.ErrCollaborator, err)
		}
		if err := tx.Bans().Create(ctx, ban); err != nil {
			return storageErr("persist ban", err)
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("create ban", err)
	}

	entry := s.log.WithFields(logrus.Fields{
		"guild_id":    guildID,
		"user_id":     targetID,
		"executor_id": auth.CallerID,
		"self":        ban.IsSelfBan(),
	})
	entry.Info("ban created")

	if removed {
		if err := s.membership.NotifyRemoved(ctx, guildID, *profile); err != nil {
			entry.WithError(err).Error("ban committed but member removal events failed")
			return nil, fmt.Errorf("%w: %v", pkg.ErrCollaborator, err)
		}
	}
	if err := s.events.PublishToGuild(ctx, guildID, ws.BanAddEvent(guildID, *profile)); err != nil {
		entry.WithError(err).Error("ban committed but GUILD_BAN_ADD publish failed")
		return nil, fmt.Errorf("%w: publish %s: %v", pkg.ErrCollaborator, ws.OpGuildBanAdd, err)
	}

	return ban, nil
}

func (s *banService) Revoke(ctx context.Context, auth *models.Authorization, userID string) error {
	if err := auth.Require(models.PermBanMembers); err != nil {
		return err
	}

	guildID := auth.Guild.ID
	if _, err := s.store.Bans().GetVisible(ctx, guildID, userID); err != nil {
		return storageErr("get ban", err)
	}

	profile, err := s.users.GetPublicProfile(ctx, userID)
	if err != nil {
		return err
	}

	// Delete kendi koşulunda self-ban'ı tekrar eler: GetVisible ile arasında
	// kayıt silinip self-ban olarak yeniden oluşturulduysa yine ErrUnknownBan.
	if err := s.store.Bans().Delete(ctx, guildID, userID); err != nil {
		return storageErr("delete ban", err)
	}

	entry := s.log.WithFields(logrus.Fields{
		"guild_id":    guildID,
		"user_id":     userID,
		"executor_id": auth.CallerID,
	})
	entry.Info("ban revoked")

	if err := s.events.PublishToGuild(ctx, guildID, ws.BanRemoveEvent(guildID, *profile)); err != nil {
		entry.WithError(err).Error("ban revoked but GUILD_BAN_REMOVE publish failed")
		return fmt.Errorf("%w: publish %s: %v", pkg.ErrCollaborator, ws.OpGuildBanRemove, err)
	}

	return nil
}

func validateBanInput(input models.CreateBanInput) error {
	req := models.BanCreateRequest{Reason: input.Reason, DeleteMessageDays: input.DeleteMessageDays}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", pkg.ErrBadRequest, err)
	}
	return nil
}
