package ws

import (
	"context"
	"fmt"
	"path"

	"golang.org/x/sync/errgroup"
)

// GuildPublisher, servis katmanının event yayınladığı interface.
//
// Servisler Hub'ın concrete struct'ına değil bu interface'e bağımlıdır;
// testlerde kaydedici bir fake kullanılır.
type GuildPublisher interface {
	// PublishToGuild, event'i guild'in o anki tüm üyelerine iletir.
	PublishToGuild(ctx context.Context, guildID string, event Event) error

	// PublishToUser, event'i tek bir kullanıcıya iletir (ör: GUILD_DELETE).
	PublishToUser(ctx context.Context, userID string, event Event) error
}

// MemberLister, guild üyelerini listeleyen bileşen (repository.GuildRepository karşılar).
type MemberLister interface {
	GetMemberIDs(ctx context.Context, guildID string) ([]string, error)
}

// HubPublisher, event'leri bu process'e bağlı WebSocket client'larına dağıtır.
type HubPublisher struct {
	hub     *Hub
	members MemberLister
}

// NewHubPublisher, constructor.
func NewHubPublisher(hub *Hub, members MemberLister) *HubPublisher {
	return &HubPublisher{hub: hub, members: members}
}

func (p *HubPublisher) PublishToGuild(ctx context.Context, guildID string, event Event) error {
	ids, err := p.members.GetMemberIDs(ctx, guildID)
	if err != nil {
		return fmt.Errorf("resolve guild %s recipients: %w", guildID, err)
	}
	p.hub.BroadcastToUsers(ids, event)
	return nil
}

func (p *HubPublisher) PublishToUser(_ context.Context, userID string, event Event) error {
	p.hub.BroadcastToUser(userID, event)
	return nil
}

// Relay, MQTT'ye JSON publish eden bileşen (mqttbus.Relay karşılar).
type Relay interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// MQTTPublisher, event'leri broker'a aktarır:
//
//	<prefix>/guilds/<guild_id>/events
//	<prefix>/users/<user_id>/events
type MQTTPublisher struct {
	relay  Relay
	prefix string
}

// NewMQTTPublisher, constructor.
func NewMQTTPublisher(relay Relay, prefix string) *MQTTPublisher {
	return &MQTTPublisher{relay: relay, prefix: prefix}
}

func (p *MQTTPublisher) PublishToGuild(ctx context.Context, guildID string, event Event) error {
	return p.relay.Publish(ctx, GuildTopic(p.prefix, guildID), event)
}

func (p *MQTTPublisher) PublishToUser(ctx context.Context, userID string, event Event) error {
	return p.relay.Publish(ctx, UserTopic(p.prefix, userID), event)
}

// GuildTopic, guild event topic'i.
func GuildTopic(prefix, guildID string) string {
	return path.Join(prefix, "guilds", guildID, "events")
}

// UserTopic, kullanıcıya özel event topic'i.
func UserTopic(prefix, userID string) string {
	return path.Join(prefix, "users", userID, "events")
}

// FanOut, birden fazla sink'i aynı anda besler.
//
// Tüm sink'ler bitene kadar bekler; ilk hata döner. Bir sink'in hatası
// diğerlerini iptal etmez; WebSocket teslimatı MQTT düştü diye yarım kalmaz.
type FanOut struct {
	sinks []GuildPublisher
}

// NewFanOut, nil sink'leri atlayarak FanOut oluşturur.
func NewFanOut(sinks ...GuildPublisher) *FanOut {
	f := &FanOut{}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

func (f *FanOut) PublishToGuild(ctx context.Context, guildID string, event Event) error {
	return f.each(func(s GuildPublisher) error {
		return s.PublishToGuild(ctx, guildID, event)
	})
}

func (f *FanOut) PublishToUser(ctx context.Context, userID string, event Event) error {
	return f.each(func(s GuildPublisher) error {
		return s.PublishToUser(ctx, userID, event)
	})
}

func (f *FanOut) each(fn func(GuildPublisher) error) error {
	// errgroup.WithContext kullanılmaz: bir sink'in hatası diğerinin ctx'ini iptal etmemeli.
	var g errgroup.Group
	for _, s := range f.sinks {
		g.Go(func() error { return fn(s) })
	}
	return g.Wait()
}
