package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akinalp/mqvi-bans/database"
	"github.com/akinalp/mqvi-bans/models"
	"github.com/akinalp/mqvi-bans/pkg"
)

type sqliteGuildRepo struct {
	db database.TxQuerier
}

// NewSQLiteGuildRepo, constructor.
func NewSQLiteGuildRepo(db database.TxQuerier) GuildRepository {
	return &sqliteGuildRepo{db: db}
}

// ─── Guild ───

func (r *sqliteGuildRepo) Create(ctx context.Context, guild *models.Guild) error {
	if guild.ID == "" {
		return fmt.Errorf("%w: guild id is required", pkg.ErrBadRequest)
	}

	query := `
		INSERT INTO guilds (id, name, owner_id)
		VALUES (?, ?, ?)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, guild.ID, guild.Name, guild.OwnerID).Scan(&guild.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: guild id already taken", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create guild: %w", err)
	}

	return nil
}

func (r *sqliteGuildRepo) GetByID(ctx context.Context, guildID string) (*models.Guild, error) {
	query := `SELECT id, name, owner_id, created_at FROM guilds WHERE id = ?`

	g := &models.Guild{}
	err := r.db.QueryRowContext(ctx, query, guildID).Scan(&g.ID, &g.Name, &g.OwnerID, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guild: %w", err)
	}

	return g, nil
}

// ─── Members ───

func (r *sqliteGuildRepo) AddMember(ctx context.Context, guildID, userID string) error {
	query := `INSERT INTO guild_members (guild_id, user_id) VALUES (?, ?)`

	if _, err := r.db.ExecContext(ctx, query, guildID, userID); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: already a member", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to add guild member: %w", err)
	}

	return nil
}

func (r *sqliteGuildRepo) RemoveMember(ctx context.Context, guildID, userID string) error {
	// member_roles FK ON DELETE CASCADE ile birlikte silinir.
	query := `DELETE FROM guild_members WHERE guild_id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query, guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove guild member: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *sqliteGuildRepo) IsMember(ctx context.Context, guildID, userID string) (bool, error) {
	query := `SELECT 1 FROM guild_members WHERE guild_id = ? AND user_id = ? LIMIT 1`

	var dummy int
	err := r.db.QueryRowContext(ctx, query, guildID, userID).Scan(&dummy)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check guild membership: %w", err)
	}

	return true, nil
}

func (r *sqliteGuildRepo) GetMemberIDs(ctx context.Context, guildID string) ([]string, error) {
	query := `SELECT user_id FROM guild_members WHERE guild_id = ? ORDER BY joined_at, rowid`

	rows, err := r.db.QueryContext(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild member ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}

	return ids, nil
}
