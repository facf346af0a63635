// Package repotest, repository ve servis testleri için SQLite fixture'ları.
//
// Her test kendi t.TempDir() altında gerçek bir veritabanı açar; migration'lar
// production ile aynıdır.
package repotest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/akinalp/mqvi-bans/database"
	"github.com/akinalp/mqvi-bans/models"
	"github.com/akinalp/mqvi-bans/pkg/crypto"
	"github.com/akinalp/mqvi-bans/repository"
)

// testKey, sadece testlerde kullanılan sabit 32-byte anahtar.
var testKey = []byte("0123456789abcdef0123456789abcdef")

// Fixture, açık bir test veritabanı ve onun üzerindeki Store.
type Fixture struct {
	DB     *database.DB
	Store  repository.Store
	Sealer *crypto.Sealer
}

// New, migration'ları uygulanmış boş bir veritabanı açar.
func New(t *testing.T) *Fixture {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), database.Migrations())
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	sealer, err := crypto.NewSealer(testKey)
	if err != nil {
		t.Fatalf("crypto.NewSealer: %v", err)
	}

	return &Fixture{
		DB:     db,
		Store:  repository.NewSQLiteStore(db.Conn, sealer),
		Sealer: sealer,
	}
}

// User, verilen id ile kullanıcı oluşturur (username = id).
func (f *Fixture) User(t *testing.T, id string) *models.User {
	t.Helper()

	u := &models.User{ID: id, Username: id}
	if err := f.Store.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", id, err)
	}
	return u
}

// Guild, sahibiyle birlikte guild + @everyone rolü oluşturur; sahip üye yapılır.
func (f *Fixture) Guild(t *testing.T, id, ownerID string) *models.Guild {
	t.Helper()
	ctx := context.Background()

	g := &models.Guild{ID: id, Name: id, OwnerID: ownerID}
	if err := f.Store.Guilds().Create(ctx, g); err != nil {
		t.Fatalf("create guild %s: %v", id, err)
	}
	everyone := &models.Role{ID: id, GuildID: id, Name: "@everyone", Permissions: models.PermSendMessages}
	if err := f.Store.Roles().Create(ctx, everyone); err != nil {
		t.Fatalf("create @everyone role: %v", err)
	}
	f.Member(t, id, ownerID)
	return g
}

// Member, kullanıcıyı guild'e ekler.
func (f *Fixture) Member(t *testing.T, guildID, userID string) {
	t.Helper()

	if err := f.Store.Guilds().AddMember(context.Background(), guildID, userID); err != nil {
		t.Fatalf("add member %s to %s: %v", userID, guildID, err)
	}
}

// Moderator, kullanıcıyı guild'e ekler ve BAN_MEMBERS yetkili bir rol atar.
func (f *Fixture) Moderator(t *testing.T, guildID, userID string) {
	t.Helper()
	ctx := context.Background()

	f.Member(t, guildID, userID)
	role := &models.Role{GuildID: guildID, Name: "mod-" + userID, Position: 1, Permissions: models.PermBanMembers}
	if err := f.Store.Roles().Create(ctx, role); err != nil {
		t.Fatalf("create moderator role: %v", err)
	}
	if err := f.Store.Roles().AssignToMember(ctx, guildID, userID, role.ID); err != nil {
		t.Fatalf("assign moderator role: %v", err)
	}
}

// Ban, doğrudan repository üzerinden ban kaydı ekler.
func (f *Fixture) Ban(t *testing.T, guildID, userID, executorID string) *models.Ban {
	t.Helper()

	b := &models.Ban{GuildID: guildID, UserID: userID, ExecutorID: executorID}
	if err := f.Store.Bans().Create(context.Background(), b); err != nil {
		t.Fatalf("create ban %s/%s: %v", guildID, userID, err)
	}
	return b
}
