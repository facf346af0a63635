// Package models, uygulamanın domain modellerini (veri yapıları) tanımlar.
//
// `json:"..."` tag'leri API response'larındaki alan adlarını belirler.
package models

import "time"

// User, users tablosundaki bir kullanıcı.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Discriminator string    `json:"discriminator"`
	Avatar        *string   `json:"avatar"`
	PublicFlags   int       `json:"public_flags"`
	CreatedAt     time.Time `json:"created_at"`
}

// PublicUser, başka kullanıcılara gösterilebilen profil projeksiyonu.
// Ban listesi ve ban event'leri sadece bu alanları taşır.
type PublicUser struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Avatar        *string `json:"avatar"`
	Discriminator string  `json:"discriminator"`
	PublicFlags   int     `json:"public_flags"`
}

// Public, kullanıcının public projeksiyonunu döner.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		Avatar:        u.Avatar,
		Discriminator: u.Discriminator,
		PublicFlags:   u.PublicFlags,
	}
}
