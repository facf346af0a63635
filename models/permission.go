package models

import (
	"fmt"

	"github.com/akinalp/mqvi-bans/pkg"
)

// Permission, rol yetkilerini bit flag olarak temsil eder.
//
// Kontrol: (permissions & BAN_MEMBERS) != 0 → bu yetki var mı?
type Permission int64

const (
	PermManageChannels Permission = 1 << iota // 1
	PermManageRoles                           // 2
	PermKickMembers                           // 4
	PermBanMembers                            // 8
	PermManageMessages                        // 16
	PermSendMessages                          // 32
	PermConnectVoice                          // 64
	PermSpeak                                 // 128
	PermStream                                // 256
	PermAdmin                                 // 512
)

// Has, belirli bir yetkinin var olup olmadığını kontrol eder.
func (p Permission) Has(perm Permission) bool {
	// ADMIN yetkisi her şeye izin verir
	if p&PermAdmin != 0 {
		return true
	}
	return p&perm != 0
}

// String, log'larda okunabilir isim.
func (p Permission) String() string {
	switch p {
	case PermBanMembers:
		return "BAN_MEMBERS"
	case PermKickMembers:
		return "KICK_MEMBERS"
	case PermAdmin:
		return "ADMINISTRATOR"
	}
	return fmt.Sprintf("permission(%d)", int64(p))
}

// Role, guild bazlı rol. ID == GuildID olan rol @everyone'dır.
type Role struct {
	ID          string     `json:"id"`
	GuildID     string     `json:"guild_id"`
	Name        string     `json:"name"`
	Position    int        `json:"position"`
	Permissions Permission `json:"permissions"`
}

// Authorization, bir request için bir kez çözümlenen yetki bağlamı:
// kim çağırıyor, hangi guild'de, hangi yetkilerle.
//
// Servis katmanı guild sahipliğini ve yetkiyi bu değer üzerinden kontrol eder;
// handler'lar ve middleware'ler kendi başına karar vermez.
type Authorization struct {
	CallerID    string
	Guild       Guild
	Permissions Permission
}

// IsOwner, çağıranın guild sahibi olup olmadığını döner.
func (a *Authorization) IsOwner() bool {
	return a.CallerID == a.Guild.OwnerID
}

// Can, yetki kontrolü. Sahip her yetkiye sahiptir.
func (a *Authorization) Can(perm Permission) bool {
	if a.IsOwner() {
		return true
	}
	return a.Permissions.Has(perm)
}

// Require, yetki yoksa pkg.ErrForbidden döner.
func (a *Authorization) Require(perm Permission) error {
	if !a.Can(perm) {
		return fmt.Errorf("%w: %s required", pkg.ErrForbidden, perm)
	}
	return nil
}
