// Package ws, WebSocket bağlantı yönetimi ve guild event'lerinin dağıtımını sağlar.
//
// Mimari:
//   - Hub: bağlı tüm client'ları userID bazında tutar
//   - Client: tek bir WebSocket bağlantısı (heartbeat dışında client → server op yok)
//   - GuildPublisher: servislerin event yayınladığı interface; Hub ve MQTT relay
//     sink'leri FanOut ile aynı anda beslenir
//
// Event akışı:
//  1. Moderatör ban atar → HTTP PUT → BanService → DB commit
//  2. BanService GUILD_BAN_ADD'i GuildPublisher'a verir
//  3. HubPublisher guild üyelerini bulur, her birinin bağlantılarına yazar
//  4. MQTTPublisher aynı event'i "<prefix>/guilds/<id>/events" topic'ine basar
package ws

import "github.com/akinalp/mqvi-bans/models"

// Event, WebSocket üzerinden iletilen bir mesaj.
//
// Op: event türü. Data: event'e özgü payload.
// Seq: her outbound event'e verilen artan sayı: client eksik event tespiti için takip eder.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client → Server operasyonları
const (
	OpHeartbeat = "heartbeat" // Client her 30sn'de gönderir
)

// Server → Client operasyonları
const (
	OpReady        = "ready"
	OpHeartbeatAck = "heartbeat_ack"

	OpGuildBanAdd       = "GUILD_BAN_ADD"
	OpGuildBanRemove    = "GUILD_BAN_REMOVE"
	OpGuildMemberRemove = "GUILD_MEMBER_REMOVE"
	OpGuildDelete       = "GUILD_DELETE" // guild'den çıkarılan kullanıcıya: "bu guild artık yok"
)

// ReadyData, bağlantı kurulduğunda gönderilen payload.
type ReadyData struct {
	UserID string `json:"user_id"`
}

// GuildDeleteData, GUILD_DELETE payload'ı.
type GuildDeleteData struct {
	ID string `json:"id"`
}

// BanAddEvent, GUILD_BAN_ADD event'i üretir.
func BanAddEvent(guildID string, user models.PublicUser) Event {
	return Event{Op: OpGuildBanAdd, Data: models.BanEventData{GuildID: guildID, User: user}}
}

// BanRemoveEvent, GUILD_BAN_REMOVE event'i üretir.
func BanRemoveEvent(guildID string, user models.PublicUser) Event {
	return Event{Op: OpGuildBanRemove, Data: models.BanEventData{GuildID: guildID, User: user}}
}

// MemberRemoveEvent, GUILD_MEMBER_REMOVE event'i üretir.
func MemberRemoveEvent(guildID string, user models.PublicUser) Event {
	return Event{Op: OpGuildMemberRemove, Data: models.MemberEventData{GuildID: guildID, User: user}}
}

// GuildDeleteEvent, GUILD_DELETE event'i üretir.
func GuildDeleteEvent(guildID string) Event {
	return Event{Op: OpGuildDelete, Data: GuildDeleteData{ID: guildID}}
}
