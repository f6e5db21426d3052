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

// sqliteInvitationRepo, InvitationRepository interface'inin SQLite implementasyonu.
type sqliteInvitationRepo struct {
	db database.TxQuerier
}

func NewSQLiteInvitationRepo(db database.TxQuerier) InvitationRepository {
	return &sqliteInvitationRepo{db: db}
}

func (r *sqliteInvitationRepo) Create(ctx context.Context, invitation *models.Invitation) error {
	query := `
		INSERT INTO invitations (id, group_id, email, token, status, invited_by, expires_at)
		VALUES (lower(hex(randomblob(8))), ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		invitation.GroupID,
		invitation.Email,
		invitation.Token,
		invitation.Status,
		invitation.InvitedBy,
		invitation.ExpiresAt.UTC().Format(sqlTimeFormat),
	).Scan(&invitation.ID, &invitation.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create invitation: %w", err)
	}

	return nil
}

func (r *sqliteInvitationRepo) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	query := `
		SELECT id, group_id, email, token, status, invited_by, expires_at, created_at
		FROM invitations
		WHERE token = ?`

	invitation := &models.Invitation{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&invitation.ID, &invitation.GroupID, &invitation.Email,
		&invitation.Token, &invitation.Status, &invitation.InvitedBy,
		&invitation.ExpiresAt, &invitation.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation by token: %w", err)
	}

	return invitation, nil
}

func (r *sqliteInvitationRepo) UpdateStatus(ctx context.Context, id string, status models.InvitationStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE invitations SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update invitation status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update invitation rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *sqliteInvitationRepo) ListByGroup(ctx context.Context, groupID string) ([]models.Invitation, error) {
	query := `
		SELECT id, group_id, email, token, status, invited_by, expires_at, created_at
		FROM invitations
		WHERE group_id = ?
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations by group: %w", err)
	}
	defer rows.Close()

	invitations := []models.Invitation{}
	for rows.Next() {
		var inv models.Invitation
		if err := rows.Scan(
			&inv.ID, &inv.GroupID, &inv.Email, &inv.Token,
			&inv.Status, &inv.InvitedBy, &inv.ExpiresAt, &inv.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invitation row: %w", err)
		}
		invitations = append(invitations, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invitation rows: %w", err)
	}

	return invitations, nil
}
