package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/akinalp/mqvi-bans/database"
	"github.com/akinalp/mqvi-bans/models"
	"github.com/akinalp/mqvi-bans/pkg"
)

type sqliteBanRepo struct {
	db     database.TxQuerier
	sealer IPSealer
}

// NewSQLiteBanRepo, BanRepository'nin SQLite implementasyonunu oluşturur.
func NewSQLiteBanRepo(db database.TxQuerier, sealer IPSealer) BanRepository {
	return &sqliteBanRepo{db: db, sealer: sealer}
}

const banColumns = `id, guild_id, user_id, executor_id, ip, reason, created_at`

func (r *sqliteBanRepo) ListVisible(ctx context.Context, guildID string) ([]models.Ban, error) {
	query := `SELECT ` + banColumns + ` FROM bans
		WHERE guild_id = ? AND user_id <> executor_id
		ORDER BY created_at, rowid`

	rows, err := r.db.QueryContext(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bans: %w", err)
	}
	defer rows.Close()

	bans := []models.Ban{}
	for rows.Next() {
		var ban models.Ban
		if err := r.scan(rows, &ban); err != nil {
			return nil, err
		}
		bans = append(bans, ban)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ban rows: %w", err)
	}

	return bans, nil
}

func (r *sqliteBanRepo) GetVisible(ctx context.Context, guildID, userID string) (*models.Ban, error) {
	query := `SELECT ` + banColumns + ` FROM bans
		WHERE guild_id = ? AND user_id = ? AND user_id <> executor_id`

	ban := &models.Ban{}
	err := r.scan(r.db.QueryRowContext(ctx, query, guildID, userID), ban)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrUnknownBan
	}
	if err != nil {
		return nil, err
	}

	return ban, nil
}

func (r *sqliteBanRepo) Exists(ctx context.Context, guildID, userID string) (bool, error) {
	query := `SELECT 1 FROM bans WHERE guild_id = ? AND user_id = ? LIMIT 1`

	var dummy int
	err := r.db.QueryRowContext(ctx, query, guildID, userID).Scan(&dummy)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check ban existence: %w", err)
	}

	return true, nil
}

func (r *sqliteBanRepo) Create(ctx context.Context, ban *models.Ban) error {
	if ban.ID == "" {
		ban.ID = uuid.New().String()
	}

	sealedIP, err := r.sealer.Seal(ban.IP)
	if err != nil {
		return fmt.Errorf("failed to seal ban ip: %w", err)
	}

	query := `
		INSERT INTO bans (id, guild_id, user_id, executor_id, ip, reason)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING created_at`

	err = r.db.QueryRowContext(ctx, query,
		ban.ID, ban.GuildID, ban.UserID, ban.ExecutorID, sealedIP, ban.Reason,
	).Scan(&ban.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user is already banned from this guild", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create ban: %w", err)
	}

	return nil
}

func (r *sqliteBanRepo) Delete(ctx context.Context, guildID, userID string) error {
	// user_id <> executor_id koşulu aynı statement'ta: "görünür mü?" kontrolü ile
	// silme arasında eşzamanlı bir self-ban araya giremez.
	query := `DELETE FROM bans WHERE guild_id = ? AND user_id = ? AND user_id <> executor_id`

	result, err := r.db.ExecContext(ctx, query, guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete ban: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return pkg.ErrUnknownBan
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *sqliteBanRepo) scan(row rowScanner, ban *models.Ban) error {
	var sealedIP string
	if err := row.Scan(
		&ban.ID, &ban.GuildID, &ban.UserID, &ban.ExecutorID,
		&sealedIP, &ban.Reason, &ban.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("failed to scan ban row: %w", err)
	}

	ip, err := r.sealer.Open(sealedIP)
	if err != nil {
		return fmt.Errorf("failed to open ban ip: %w", err)
	}
	ban.IP = ip
	return nil
}
