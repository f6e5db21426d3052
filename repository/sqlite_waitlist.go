package repository

import (
	"context"
	"fmt"

	"github.com/eraydn/odak/database"
	"github.com/eraydn/odak/models"
)

// sqliteWaitlistRepo, WaitlistRepository interface'inin SQLite implementasyonu.
type sqliteWaitlistRepo struct {
	db database.TxQuerier
}

func NewSQLiteWaitlistRepo(db database.TxQuerier) WaitlistRepository {
	return &sqliteWaitlistRepo{db: db}
}

// Add, email'i bekleme listesine ekler. email PRIMARY KEY olduğu için
// INSERT OR IGNORE ile tekrar eklemeler sessizce yutulur.
func (r *sqliteWaitlistRepo) Add(ctx context.Context, email string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO waitlist (email) VALUES (?)`, email)
	if err != nil {
		return false, fmt.Errorf("failed to add waitlist entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("waitlist rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *sqliteWaitlistRepo) List(ctx context.Context) ([]models.WaitlistEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT email, created_at FROM waitlist ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist: %w", err)
	}
	defer rows.Close()

	entries := []models.WaitlistEntry{}
	for rows.Next() {
		var entry models.WaitlistEntry
		if err := rows.Scan(&entry.Email, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan waitlist row: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate waitlist rows: %w", err)
	}

	return entries, nil
}

func (r *sqliteWaitlistRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM waitlist`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count waitlist: %w", err)
	}
	return count, nil
}
