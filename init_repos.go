// Package main — Repository katmanı başlatma.
//
// initRepositories, repository implementasyonlarını oluşturur.
// Store transaction sınırını taşır; tekil repository'ler middleware ve
// servislerin transaction gerektirmeyen okumaları içindir.
package main

import (
	"database/sql"

	"github.com/akinalp/mqvi-bans/repository"
)

// Repositories, repository instance'larını tutan container struct.
type Repositories struct {
	Store repository.Store
	User  repository.UserRepository
	Guild repository.GuildRepository
	Role  repository.RoleRepository
}

// initRepositories, veritabanı bağlantısından repository'leri oluşturur.
// *sql.DB thread-safe connection pool'dur, paylaşılması güvenlidir.
func initRepositories(conn *sql.DB, sealer repository.IPSealer) *Repositories {
	store := repository.NewSQLiteStore(conn, sealer)
	return &Repositories{
		Store: store,
		User:  store.Users(),
		Guild: store.Guilds(),
		Role:  store.Roles(),
	}
}
