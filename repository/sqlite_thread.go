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

// sqliteThreadRepo, ThreadRepository interface'inin SQLite implementasyonu.
type sqliteThreadRepo struct {
	db database.TxQuerier
}

func NewSQLiteThreadRepo(db database.TxQuerier) ThreadRepository {
	return &sqliteThreadRepo{db: db}
}

func (r *sqliteThreadRepo) Create(ctx context.Context, thread *models.SideThread) error {
	query := `
		INSERT INTO side_threads (id, group_id, name, created_by)
		VALUES (lower(hex(randomblob(8))), ?, ?, ?)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		thread.GroupID, thread.Name, thread.CreatedBy,
	).Scan(&thread.ID, &thread.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create side thread: %w", err)
	}

	return nil
}

func (r *sqliteThreadRepo) GetByID(ctx context.Context, id string) (*models.SideThread, error) {
	query := `SELECT id, group_id, name, created_by, created_at FROM side_threads WHERE id = ?`

	thread := &models.SideThread{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&thread.ID, &thread.GroupID, &thread.Name, &thread.CreatedBy, &thread.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get side thread by id: %w", err)
	}

	return thread, nil
}

// ListByGroupForUser, gruptaki thread'lerden kullanıcının katılımcısı
// olduklarını döner. JOIN filtresi görünürlük kuralının kendisidir.
func (r *sqliteThreadRepo) ListByGroupForUser(ctx context.Context, groupID, userID string) ([]models.SideThread, error) {
	query := `
		SELECT t.id, t.group_id, t.name, t.created_by, t.created_at
		FROM side_threads t
		JOIN side_thread_participants p ON p.thread_id = t.id
		WHERE t.group_id = ? AND p.user_id = ?
		ORDER BY t.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads for user: %w", err)
	}
	defer rows.Close()

	threads := []models.SideThread{}
	for rows.Next() {
		var thread models.SideThread
		if err := rows.Scan(
			&thread.ID, &thread.GroupID, &thread.Name,
			&thread.CreatedBy, &thread.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan thread row: %w", err)
		}
		threads = append(threads, thread)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate thread rows: %w", err)
	}

	return threads, nil
}

// AddParticipant, idempotent — zaten katılımcıysa sessizce başarılı olur.
func (r *sqliteThreadRepo) AddParticipant(ctx context.Context, threadID, userID string) error {
	query := `INSERT OR IGNORE INTO side_thread_participants (thread_id, user_id) VALUES (?, ?)`

	_, err := r.db.ExecContext(ctx, query, threadID, userID)
	if err != nil {
		return fmt.Errorf("failed to add thread participant: %w", err)
	}

	return nil
}

func (r *sqliteThreadRepo) RemoveParticipant(ctx context.Context, threadID, userID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM side_thread_participants WHERE thread_id = ? AND user_id = ?`,
		threadID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove thread participant: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove participant rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *sqliteThreadRepo) ListParticipants(ctx context.Context, threadID string) ([]models.ThreadParticipant, error) {
	query := `
		SELECT p.thread_id, p.user_id, u.username, u.display_name, p.joined_at
		FROM side_thread_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.thread_id = ?
		ORDER BY p.joined_at ASC`

	rows, err := r.db.QueryContext(ctx, query, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list thread participants: %w", err)
	}
	defer rows.Close()

	participants := []models.ThreadParticipant{}
	for rows.Next() {
		var p models.ThreadParticipant
		if err := rows.Scan(
			&p.ThreadID, &p.UserID, &p.Username, &p.DisplayName, &p.JoinedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		participants = append(participants, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participant rows: %w", err)
	}

	return participants, nil
}

func (r *sqliteThreadRepo) IsParticipant(ctx context.Context, threadID, userID string) (bool, error) {
	query := `SELECT 1 FROM side_thread_participants WHERE thread_id = ? AND user_id = ?`

	var one int
	err := r.db.QueryRowContext(ctx, query, threadID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check thread participation: %w", err)
	}

	return true, nil
}
