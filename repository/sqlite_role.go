package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/akinalp/mqvi-bans/database"
	"github.com/akinalp/mqvi-bans/models"
	"github.com/akinalp/mqvi-bans/pkg"
)

type sqliteRoleRepo struct {
	db database.TxQuerier
}

// NewSQLiteRoleRepo, constructor.
func NewSQLiteRoleRepo(db database.TxQuerier) RoleRepository {
	return &sqliteRoleRepo{db: db}
}

func (r *sqliteRoleRepo) Create(ctx context.Context, role *models.Role) error {
	if role.ID == "" {
		role.ID = uuid.New().String()
	}

	query := `
		INSERT INTO roles (id, guild_id, name, position, permissions)
		VALUES (?, ?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query,
		role.ID, role.GuildID, role.Name, role.Position, role.Permissions,
	); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: role id already taken", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create role: %w", err)
	}

	return nil
}

func (r *sqliteRoleRepo) GetByMember(ctx context.Context, guildID, userID string) ([]models.Role, error) {
	query := `
		SELECT r.id, r.guild_id, r.name, r.position, r.permissions
		FROM roles r
		WHERE r.guild_id = ? AND (
			r.id = r.guild_id
			OR r.id IN (SELECT role_id FROM member_roles WHERE guild_id = ? AND user_id = ?)
		)
		ORDER BY r.position DESC`

	rows, err := r.db.QueryContext(ctx, query, guildID, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roles by member: %w", err)
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(
			&role.ID, &role.GuildID, &role.Name, &role.Position, &role.Permissions,
		); err != nil {
			return nil, fmt.Errorf("failed to scan role row: %w", err)
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating role rows: %w", err)
	}

	return roles, nil
}

func (r *sqliteRoleRepo) AssignToMember(ctx context.Context, guildID, userID, roleID string) error {
	query := `INSERT OR IGNORE INTO member_roles (guild_id, user_id, role_id) VALUES (?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, guildID, userID, roleID); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}

	return nil
}
