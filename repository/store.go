// Package repository, veri erişim katmanını barındırır.
//
// Her tablo grubu için bir interface + SQLite implementasyonu vardır.
// Servisler sadece interface'leri bilir; testlerde gerçek SQLite (t.TempDir)
// kullanılır.
//
// Store, repository'leri tek bir TxQuerier üzerinde toplar. WithTx içinde
// alınan Store'un tüm repository'leri aynı *sql.Tx ile çalışır; böylece
// "üyeliği sil + ban ekle" gibi çok adımlı yazmalar atomik olur.
package repository

import (
	"context"
	"database/sql"

	"github.com/akinalp/mqvi-bans/database"
)

// Store, repository'lere erişim ve transaction sınırı.
type Store interface {
	Bans() BanRepository
	Guilds() GuildRepository
	Users() UserRepository
	Roles() RoleRepository

	// WithTx, fn'i tek bir transaction içinde çalıştırır. fn'e verilen Store
	// transaction'a bağlıdır; fn error dönerse tüm yazmalar geri alınır.
	// Zaten transaction içindeki bir Store'da çağrılırsa fn aynı transaction'da çalışır.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

type sqliteStore struct {
	db     *sql.DB
	q      database.TxQuerier
	sealer IPSealer
	inTx   bool
}

// NewSQLiteStore, constructor. sealer ban ip'lerini at-rest şifreler.
func NewSQLiteStore(db *sql.DB, sealer IPSealer) Store {
	return &sqliteStore{db: db, q: db, sealer: sealer}
}

func (s *sqliteStore) Bans() BanRepository     { return NewSQLiteBanRepo(s.q, s.sealer) }
func (s *sqliteStore) Guilds() GuildRepository { return NewSQLiteGuildRepo(s.q) }
func (s *sqliteStore) Users() UserRepository   { return NewSQLiteUserRepo(s.q) }
func (s *sqliteStore) Roles() RoleRepository   { return NewSQLiteRoleRepo(s.q) }

func (s *sqliteStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(&sqliteStore{db: s.db, q: tx, sealer: s.sealer, inTx: true})
	})
}
