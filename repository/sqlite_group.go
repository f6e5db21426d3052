package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eraydn/odak/database"
	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/pkg"
)

// sqliteGroupRepo, GroupRepository interface'inin SQLite implementasyonu.
type sqliteGroupRepo struct {
	db database.TxQuerier
}

func NewSQLiteGroupRepo(db database.TxQuerier) GroupRepository {
	return &sqliteGroupRepo{db: db}
}

func (r *sqliteGroupRepo) Create(ctx context.Context, group *models.Group) error {
	query := `
		INSERT INTO groups (id, name, created_by)
		VALUES (lower(hex(randomblob(8))), ?, ?)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, group.Name, group.CreatedBy).
		Scan(&group.ID, &group.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}

	return nil
}

func (r *sqliteGroupRepo) GetByID(ctx context.Context, id string) (*models.Group, error) {
	query := `SELECT id, name, created_by, created_at FROM groups WHERE id = ?`

	group := &models.Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&group.ID, &group.Name, &group.CreatedBy, &group.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group by id: %w", err)
	}

	return group, nil
}

// ListByUser, kullanıcının üyesi olduğu grupları döner (sidebar listesi).
func (r *sqliteGroupRepo) ListByUser(ctx context.Context, userID string) ([]models.Group, error) {
	query := `
		SELECT g.id, g.name, g.created_by, g.created_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = ?
		ORDER BY g.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups by user: %w", err)
	}
	defer rows.Close()

	groups := []models.Group{}
	for rows.Next() {
		var group models.Group
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedBy, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		groups = append(groups, group)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate group rows: %w", err)
	}

	return groups, nil
}

// AddMember, kullanıcıyı gruba ekler. Zaten üyeyse sessizce başarılı olur —
// davet kabul akışı yarışabilir, idempotent olmalı.
func (r *sqliteGroupRepo) AddMember(ctx context.Context, groupID, userID string) error {
	query := `INSERT OR IGNORE INTO group_members (group_id, user_id) VALUES (?, ?)`

	_, err := r.db.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}

	return nil
}

func (r *sqliteGroupRepo) RemoveMember(ctx context.Context, groupID, userID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id = ? AND user_id = ?`, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove member rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

// ListMembers, grup üyelerini kullanıcı bilgisiyle birlikte döner (JOIN).
func (r *sqliteGroupRepo) ListMembers(ctx context.Context, groupID string) ([]models.GroupMember, error) {
	query := `
		SELECT gm.group_id, gm.user_id, u.username, u.display_name, u.avatar_url, gm.joined_at
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = ?
		ORDER BY gm.joined_at ASC`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	defer rows.Close()

	members := []models.GroupMember{}
	for rows.Next() {
		var member models.GroupMember
		if err := rows.Scan(
			&member.GroupID, &member.UserID, &member.Username,
			&member.DisplayName, &member.AvatarURL, &member.JoinedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate member rows: %w", err)
	}

	return members, nil
}

func (r *sqliteGroupRepo) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	query := `SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?`

	var one int
	err := r.db.QueryRowContext(ctx, query, groupID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check group membership: %w", err)
	}

	return true, nil
}
