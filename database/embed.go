package database

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migrations, binary'ye gömülü migration dosyalarını migrations/ kökünden sunar.
func Migrations() fs.FS {
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		// embed pattern'i derleme zamanında doğrulanır; buraya düşmek build hatasıdır.
		panic(err)
	}
	return sub
}
