package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/akinalp/mqvi-bans/models"
	"github.com/akinalp/mqvi-bans/pkg"
	"github.com/akinalp/mqvi-bans/repository/repotest"
)

func banFixture(t *testing.T) *repotest.Fixture {
	t.Helper()
	f := repotest.New(t)
	for _, id := range []string{"owner", "mod", "alice", "bob", "carol"} {
		f.User(t, id)
	}
	f.Guild(t, "g1", "owner")
	return f
}

func TestListVisibleHidesSelfBans(t *testing.T) {
	f := banFixture(t)
	ctx := context.Background()

	f.Ban(t, "g1", "alice", "mod")
	f.Ban(t, "g1", "bob", "bob")
	f.Ban(t, "g1", "carol", "owner")

	bans, err := f.Store.Bans().ListVisible(ctx, "g1")
	if err != nil {
		t.Fatalf("ListVisible: %v", err)
	}

	var got []string
	for _, b := range bans {
		got = append(got, b.UserID)
	}
	if diff := cmp.Diff([]string{"alice", "carol"}, got); diff != "" {
		t.Errorf("visible bans mismatch (-want +got):\n%s", diff)
	}
}

func TestListVisibleEmptyGuild(t *testing.T) {
	f := banFixture(t)

	bans, err := f.Store.Bans().ListVisible(context.Background(), "g1")
	if err != nil {
		t.Fatalf("ListVisible: %v", err)
	}
	if bans == nil || len(bans) != 0 {
		t.Errorf("ListVisible = %#v, want empty non-nil slice", bans)
	}
}

func TestGetVisibleSelfBanIsUnknown(t *testing.T) {
	f := banFixture(t)
	ctx := context.Background()

	f.Ban(t, "g1", "bob", "bob")

	_, selfErr := f.Store.Bans().GetVisible(ctx, "g1", "bob")
	_, absentErr := f.Store.Bans().GetVisible(ctx, "g1", "carol")

	if !errors.Is(selfErr, pkg.ErrUnknownBan) {
		t.Errorf("self-ban GetVisible err = %v, want ErrUnknownBan", selfErr)
	}
	if selfErr != absentErr {
		t.Errorf("self-ban error %v differs from absent error %v", selfErr, absentErr)
	}

	exists, err := f.Store.Bans().Exists(ctx, "g1", "bob")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Error("Exists should report self-bans")
	}
}

func TestCreateRoundTripsSealedIP(t *testing.T) {
	f := banFixture(t)
	ctx := context.Background()

	reason := "spam"
	ban := &models.Ban{GuildID: "g1", UserID: "alice", ExecutorID: "mod", IP: "203.0.113.7", Reason: &reason}
	if err := f.Store.Bans().Create(ctx, ban); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ban.ID == "" || ban.CreatedAt.IsZero() {
		t.Fatalf("Create did not populate id/created_at: %+v", ban)
	}

	var stored string
	if err := f.DB.Conn.QueryRow(`SELECT ip FROM bans WHERE id = ?`, ban.ID).Scan(&stored); err != nil {
		t.Fatalf("select ip: %v", err)
	}
	if stored == "203.0.113.7" {
		t.Error("ip stored in plaintext")
	}

	got, err := f.Store.Bans().GetVisible(ctx, "g1", "alice")
	if err != nil {
		t.Fatalf("GetVisible: %v", err)
	}
	if diff := cmp.Diff(ban, got); diff != "" {
		t.Errorf("ban mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateDuplicate(t *testing.T) {
	f := banFixture(t)

	f.Ban(t, "g1", "alice", "mod")
	err := f.Store.Bans().Create(context.Background(), &models.Ban{GuildID: "g1", UserID: "alice", ExecutorID: "owner"})
	if !errors.Is(err, pkg.ErrAlreadyExists) {
		t.Errorf("duplicate Create err = %v, want ErrAlreadyExists", err)
	}
}

func TestDeleteRefusesSelfBan(t *testing.T) {
	f := banFixture(t)
	ctx := context.Background()

	f.Ban(t, "g1", "bob", "bob")
	f.Ban(t, "g1", "alice", "mod")

	if err := f.Store.Bans().Delete(ctx, "g1", "bob"); !errors.Is(err, pkg.ErrUnknownBan) {
		t.Errorf("Delete self-ban err = %v, want ErrUnknownBan", err)
	}
	if exists, _ := f.Store.Bans().Exists(ctx, "g1", "bob"); !exists {
		t.Error("self-ban was deleted")
	}

	if err := f.Store.Bans().Delete(ctx, "g1", "alice"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := f.Store.Bans().Delete(ctx, "g1", "alice"); !errors.Is(err, pkg.ErrUnknownBan) {
		t.Errorf("second Delete err = %v, want ErrUnknownBan", err)
	}
}
