package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/akinalp/mqvi-bans/models"
	"github.com/akinalp/mqvi-bans/pkg"
	"github.com/akinalp/mqvi-bans/ws"
)

func TestModeratorBanRemovesMemberAndPublishes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	ban, err := e.bans.Create(ctx, e.auth(t, "mod"), models.CreateBanInput{
		TargetID:          "alice",
		Reason:            strPtr("spam"),
		DeleteMessageDays: intPtr(7),
		IP:                "198.51.100.4",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if ban.UserID != "alice" || ban.ExecutorID != "mod" || ban.GuildID != "g1" || ban.IP != "198.51.100.4" {
		t.Errorf("unexpected ban: %+v", ban)
	}
	if ban.IsSelfBan() {
		t.Error("moderator ban reported as self-ban")
	}
	if e.isMember(t, "alice") {
		t.Error("alice is still a member")
	}
	if !e.banExists(t, "alice") {
		t.Error("ban not persisted")
	}

	want := []published{
		{Target: "guild:g1", Op: ws.OpGuildMemberRemove},
		{Target: "user:alice", Op: ws.OpGuildDelete},
		{Target: "guild:g1", Op: ws.OpGuildBanAdd},
	}
	if diff := cmp.Diff(want, e.events.recorded()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}

	payload, ok := e.events.data[2].(models.BanEventData)
	if !ok || payload.GuildID != "g1" || payload.User.ID != "alice" {
		t.Errorf("GUILD_BAN_ADD payload = %#v", e.events.data[2])
	}
}

func TestPreemptiveBanOfNonMember(t *testing.T) {
	e := newEnv(t)

	if _, err := e.bans.Create(context.Background(), e.auth(t, "mod"), models.CreateBanInput{TargetID: "carol"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	want := []published{{Target: "guild:g1", Op: ws.OpGuildBanAdd}}
	if diff := cmp.Diff(want, e.events.recorded()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestSelfBanIsInvisibleToModerators(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	self, err := e.bans.CreateSelf(ctx, e.auth(t, "bob"), models.CreateBanInput{TargetID: "bob"})
	if err != nil {
		t.Fatalf("CreateSelf: %v", err)
	}
	if !self.IsSelfBan() {
		t.Fatalf("self ban has executor %s", self.ExecutorID)
	}
	if e.isMember(t, "bob") {
		t.Error("bob is still a member after self-ban")
	}
	if _, err := e.bans.Create(ctx, e.auth(t, "mod"), models.CreateBanInput{TargetID: "alice", Reason: strPtr("raid")}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	modAuth := e.auth(t, "mod")

	list, err := e.bans.List(ctx, modAuth)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	wantList := []models.BanSummary{{
		User:   models.PublicUser{ID: "alice", Username: "alice", Discriminator: "0000"},
		Reason: strPtr("raid"),
	}}
	if diff := cmp.Diff(wantList, list); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}

	_, selfErr := e.bans.Get(ctx, modAuth, "bob")
	_, absentErr := e.bans.Get(ctx, modAuth, "carol")
	_, ghostErr := e.bans.Get(ctx, modAuth, "no-such-user")
	for name, err := range map[string]error{"self-ban": selfErr, "absent": absentErr, "unknown user": ghostErr} {
		if !errors.Is(err, pkg.ErrUnknownBan) {
			t.Errorf("Get %s: err = %v, want ErrUnknownBan", name, err)
		}
	}
	if selfErr.Error() != absentErr.Error() {
		t.Errorf("self-ban error %q differs from absent error %q", selfErr, absentErr)
	}

	if err := e.bans.Revoke(ctx, modAuth, "bob"); !errors.Is(err, pkg.ErrUnknownBan) {
		t.Errorf("Revoke self-ban err = %v, want ErrUnknownBan", err)
	}
	if !e.banExists(t, "bob") {
		t.Error("self-ban was removed by a moderator")
	}
}

func TestGetOmitsIP(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if _, err := e.bans.Create(ctx, e.auth(t, "mod"), models.CreateBanInput{TargetID: "alice", IP: "203.0.113.9"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	view, err := e.bans.Get(ctx, e.auth(t, "mod"), "alice")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if view.UserID != "alice" || view.ExecutorID != "mod" {
		t.Errorf("unexpected view: %+v", view)
	}
}

func TestRevokeRestoresJoinAndPublishes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	modAuth := e.auth(t, "mod")

	if _, err := e.bans.Create(ctx, modAuth, models.CreateBanInput{TargetID: "alice"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := e.membership.Join(ctx, "g1", "alice"); !errors.Is(err, pkg.ErrForbidden) {
		t.Fatalf("Join while banned err = %v, want ErrForbidden", err)
	}

	if err := e.bans.Revoke(ctx, modAuth, "alice"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	got := e.events.recorded()
	if last := got[len(got)-1]; last != (published{Target: "guild:g1", Op: ws.OpGuildBanRemove}) {
		t.Errorf("last event = %+v, want GUILD_BAN_REMOVE", last)
	}

	if _, err := e.bans.Get(ctx, modAuth, "alice"); !errors.Is(err, pkg.ErrUnknownBan) {
		t.Errorf("Get after revoke err = %v, want ErrUnknownBan", err)
	}
	if err := e.bans.Revoke(ctx, modAuth, "alice"); !errors.Is(err, pkg.ErrUnknownBan) {
		t.Errorf("second Revoke err = %v, want ErrUnknownBan", err)
	}
	if _, err := e.membership.Join(ctx, "g1", "alice"); err != nil {
		t.Errorf("Join after revoke: %v", err)
	}
}

func TestSelfBannedUserCannotRejoin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if _, err := e.bans.CreateSelf(ctx, e.auth(t, "bob"), models.CreateBanInput{}); err != nil {
		t.Fatalf("CreateSelf: %v", err)
	}
	if _, err := e.membership.Join(ctx, "g1", "bob"); !errors.Is(err, pkg.ErrForbidden) {
		t.Errorf("Join after self-ban err = %v, want ErrForbidden", err)
	}
}

func TestOwnerProtections(t *testing.T) {
	tests := []struct {
		name    string
		caller  string
		target  string
		self    bool
		wantErr error
	}{
		{name: "owner bans self via moderator path", caller: "owner", target: "owner", wantErr: pkg.ErrForbidden},
		{name: "moderator bans owner", caller: "mod", target: "owner", wantErr: pkg.ErrForbidden},
		{name: "owner self-ban", caller: "owner", target: "owner", self: true, wantErr: pkg.ErrForbidden},
		{name: "moderator bans self via moderator path", caller: "mod", target: "mod", wantErr: pkg.ErrBadRequest},
		{name: "self path with foreign target", caller: "alice", target: "bob", self: true, wantErr: pkg.ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			auth := e.auth(t, tt.caller)
			input := models.CreateBanInput{TargetID: tt.target}

			var err error
			if tt.self {
				_, err = e.bans.CreateSelf(context.Background(), auth, input)
			} else {
				_, err = e.bans.Create(context.Background(), auth, input)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if e.banExists(t, tt.target) || !e.isMember(t, tt.target) {
				t.Error("state mutated by a rejected request")
			}
			if got := e.events.recorded(); len(got) != 0 {
				t.Errorf("events published: %+v", got)
			}
		})
	}
}

func TestMissingPermission(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.f.Ban(t, "g1", "carol", "mod")
	auth := e.auth(t, "alice")

	if _, err := e.bans.List(ctx, auth); !errors.Is(err, pkg.ErrForbidden) {
		t.Errorf("List err = %v, want ErrForbidden", err)
	}
	if _, err := e.bans.Get(ctx, auth, "carol"); !errors.Is(err, pkg.ErrForbidden) {
		t.Errorf("Get err = %v, want ErrForbidden", err)
	}
	if _, err := e.bans.Create(ctx, auth, models.CreateBanInput{TargetID: "bob"}); !errors.Is(err, pkg.ErrForbidden) {
		t.Errorf("Create err = %v, want ErrForbidden", err)
	}
	if err := e.bans.Revoke(ctx, auth, "carol"); !errors.Is(err, pkg.ErrForbidden) {
		t.Errorf("Revoke err = %v, want ErrForbidden", err)
	}

	if !e.isMember(t, "bob") || !e.banExists(t, "carol") {
		t.Error("state mutated by an unauthorized caller")
	}
}

func TestUnknownTargetMutatesNothing(t *testing.T) {
	e := newEnv(t)

	_, err := e.bans.Create(context.Background(), e.auth(t, "mod"), models.CreateBanInput{TargetID: "ghost"})
	if !errors.Is(err, pkg.ErrUnknownUser) {
		t.Fatalf("err = %v, want ErrUnknownUser", err)
	}
	if got := e.events.recorded(); len(got) != 0 {
		t.Errorf("events published: %+v", got)
	}
}

func TestDuplicateBan(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	auth := e.auth(t, "mod")

	if _, err := e.bans.Create(ctx, auth, models.CreateBanInput{TargetID: "alice"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := e.bans.Create(ctx, auth, models.CreateBanInput{TargetID: "alice"}); !errors.Is(err, pkg.ErrAlreadyExists) {
		t.Errorf("second Create err = %v, want ErrAlreadyExists", err)
	}
}

func TestInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input models.CreateBanInput
	}{
		{name: "reason too long", input: models.CreateBanInput{TargetID: "alice", Reason: strPtr(strings.Repeat("ş", models.MaxBanReasonLength+1))}},
		{name: "negative delete days", input: models.CreateBanInput{TargetID: "alice", DeleteMessageDays: intPtr(-1)}},
		{name: "delete days above limit", input: models.CreateBanInput{TargetID: "alice", DeleteMessageDays: intPtr(8)}},
		{name: "missing target", input: models.CreateBanInput{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			_, err := e.bans.Create(context.Background(), e.auth(t, "mod"), tt.input)
			if !errors.Is(err, pkg.ErrBadRequest) {
				t.Errorf("err = %v, want ErrBadRequest", err)
			}
			if !e.isMember(t, "alice") {
				t.Error("alice removed by an invalid request")
			}
		})
	}
}

func TestPublishFailureKeepsCommittedBan(t *testing.T) {
	e := newEnv(t)
	e.events.failOp = ws.OpGuildBanAdd

	_, err := e.bans.Create(context.Background(), e.auth(t, "mod"), models.CreateBanInput{TargetID: "alice"})
	if !errors.Is(err, pkg.ErrCollaborator) {
		t.Fatalf("err = %v, want ErrCollaborator", err)
	}
	if !e.banExists(t, "alice") || e.isMember(t, "alice") {
		t.Error("committed ban state was not kept after publish failure")
	}
}

func TestCommitFailureIsCollaboratorFailure(t *testing.T) {
	e := newEnv(t)
	store := commitFailingStore{Store: e.f.Store}
	membership := NewMembershipService(store, e.events)
	bans := NewBanService(store, NewUserDirectory(e.f.Store.Users(), 0), membership, e.events)
	ctx := context.Background()

	_, err := bans.Create(ctx, e.auth(t, "mod"), models.CreateBanInput{TargetID: "alice"})
	if !errors.Is(err, pkg.ErrCollaborator) {
		t.Fatalf("Create err = %v, want ErrCollaborator", err)
	}
	if e.banExists(t, "alice") || !e.isMember(t, "alice") {
		t.Error("failed commit left partial state")
	}
	if got := e.events.recorded(); len(got) != 0 {
		t.Errorf("events published for an uncommitted ban: %v", got)
	}

	if _, err := membership.Join(ctx, "g1", "carol"); !errors.Is(err, pkg.ErrCollaborator) {
		t.Errorf("Join err = %v, want ErrCollaborator", err)
	}
}

func TestOwnerHasEveryPermission(t *testing.T) {
	e := newEnv(t)

	if _, err := e.bans.Create(context.Background(), e.auth(t, "owner"), models.CreateBanInput{TargetID: "mod"}); err != nil {
		t.Fatalf("owner Create: %v", err)
	}
	if e.isMember(t, "mod") {
		t.Error("mod is still a member")
	}
}
