package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/akinalp/mqvi-bans/models"
	"github.com/akinalp/mqvi-bans/repository"
	"github.com/akinalp/mqvi-bans/repository/repotest"
	"github.com/akinalp/mqvi-bans/ws"
)

// published, kaydedilen bir event: "guild:<id>" veya "user:<id>" hedefi + op.
type published struct {
	Target string
	Op     string
}

// recordingPublisher, ws.GuildPublisher fake'i. failOp eşleşen op'ta hata döner.
type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	data   []any
	failOp string
}

var errPublish = errors.New("event bus unavailable")

func (p *recordingPublisher) record(target string, event ws.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failOp != "" && event.Op == p.failOp {
		return errPublish
	}
	p.events = append(p.events, published{Target: target, Op: event.Op})
	p.data = append(p.data, event.Data)
	return nil
}

func (p *recordingPublisher) PublishToGuild(_ context.Context, guildID string, event ws.Event) error {
	return p.record("guild:"+guildID, event)
}

func (p *recordingPublisher) PublishToUser(_ context.Context, userID string, event ws.Event) error {
	return p.record("user:"+userID, event)
}

func (p *recordingPublisher) recorded() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.events...)
}

// commitFailingStore, transaction içindeki tüm yazmaları geri alır ve
// commit hatası döner.
type commitFailingStore struct {
	repository.Store
}

var errForcedRollback = errors.New("forced rollback")

func (s commitFailingStore) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	err := s.Store.WithTx(ctx, func(tx repository.Store) error {
		if err := fn(tx); err != nil {
			return err
		}
		return errForcedRollback
	})
	if errors.Is(err, errForcedRollback) {
		return fmt.Errorf("failed to commit transaction: %w", sql.ErrConnDone)
	}
	return err
}

// env, servis testleri için kurulu ortam:
// g1 guild'i, owner sahibi, mod BAN_MEMBERS rollü, alice/bob sıradan üye,
// carol kayıtlı ama üye değil.
type env struct {
	f          *repotest.Fixture
	events     *recordingPublisher
	perms      PermissionService
	membership MembershipService
	bans       BanService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	f := repotest.New(t)
	for _, id := range []string{"owner", "mod", "alice", "bob", "carol"} {
		f.User(t, id)
	}
	f.Guild(t, "g1", "owner")
	f.Moderator(t, "g1", "mod")
	f.Member(t, "g1", "alice")
	f.Member(t, "g1", "bob")

	events := &recordingPublisher{}
	membership := NewMembershipService(f.Store, events)
	users := NewUserDirectory(f.Store.Users(), 0)

	return &env{
		f:          f,
		events:     events,
		perms:      NewPermissionService(f.Store.Guilds(), f.Store.Roles()),
		membership: membership,
		bans:       NewBanService(f.Store, users, membership, events),
	}
}

func (e *env) auth(t *testing.T, callerID string) *models.Authorization {
	t.Helper()
	a, err := e.perms.Resolve(context.Background(), callerID, "g1")
	if err != nil {
		t.Fatalf("Resolve(%s): %v", callerID, err)
	}
	return a
}

func (e *env) isMember(t *testing.T, userID string) bool {
	t.Helper()
	ok, err := e.f.Store.Guilds().IsMember(context.Background(), "g1", userID)
	if err != nil {
		t.Fatalf("IsMember: %v", err)
	}
	return ok
}

func (e *env) banExists(t *testing.T, userID string) bool {
	t.Helper()
	ok, err := e.f.Store.Bans().Exists(context.Background(), "g1", userID)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	return ok
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
