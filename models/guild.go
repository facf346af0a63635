package models

import "time"

// Guild, bir sunucu (guild). OwnerID sahiplik kontrollerinde kullanılır.
type Guild struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// GuildMember, kullanıcı ↔ guild üyelik ilişkisi.
type GuildMember struct {
	GuildID  string    `json:"guild_id"`
	UserID   string    `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// MemberEventData, GUILD_MEMBER_REMOVE payload'ı.
type MemberEventData struct {
	GuildID string     `json:"guild_id"`
	User    PublicUser `json:"user"`
}
