package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/eraydn/odak/database"
	"github.com/eraydn/odak/models"
)

// sqliteReceiptRepo, ReceiptRepository interface'inin SQLite implementasyonu.
type sqliteReceiptRepo struct {
	db database.TxQuerier
}

func NewSQLiteReceiptRepo(db database.TxQuerier) ReceiptRepository {
	return &sqliteReceiptRepo{db: db}
}

// Mark, read receipt'i idempotent olarak yazar.
//
// INSERT OR IGNORE + RETURNING: Satır gerçekten eklendiyse read_at döner.
// PK(message_id, user_id) nedeniyle ignore edildiyse RETURNING hiçbir satır
// üretmez (ErrNoRows) — receipt zaten vardır, mevcut satır okunup
// created=false ile dönülür. Çağıran taraf created=false'ta broadcast yapmaz.
func (r *sqliteReceiptRepo) Mark(ctx context.Context, conv models.Conversation, messageID, userID string) (bool, *models.ReadReceipt, error) {
	t := tablesFor(conv)

	receipt := &models.ReadReceipt{MessageID: messageID, UserID: userID}

	insertQuery := fmt.Sprintf(`
		INSERT OR IGNORE INTO %s (message_id, user_id)
		VALUES (?, ?)
		RETURNING read_at`, t.reads)

	err := r.db.QueryRowContext(ctx, insertQuery, messageID, userID).Scan(&receipt.ReadAt)
	if err == nil {
		return true, receipt, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, nil, fmt.Errorf("mark read receipt: %w", err)
	}

	// Zaten vardı — mevcut satırı oku
	selectQuery := fmt.Sprintf(
		`SELECT read_at FROM %s WHERE message_id = ? AND user_id = ?`, t.reads)
	if err := r.db.QueryRowContext(ctx, selectQuery, messageID, userID).Scan(&receipt.ReadAt); err != nil {
		return false, nil, fmt.Errorf("get existing read receipt: %w", err)
	}

	return false, receipt, nil
}

func (r *sqliteReceiptRepo) GetByMessageID(ctx context.Context, conv models.Conversation, messageID string) ([]models.ReadReceipt, error) {
	t := tablesFor(conv)

	query := fmt.Sprintf(`
		SELECT message_id, user_id, read_at
		FROM %s
		WHERE message_id = ?
		ORDER BY read_at ASC`, t.reads)

	rows, err := r.db.QueryContext(ctx, query, messageID)
	if err != nil {
		return nil, fmt.Errorf("get receipts by message: %w", err)
	}
	defer rows.Close()

	return scanReceipts(rows)
}

// GetByMessageIDs, batch yükleme — mesaj listesi render edilirken
// her mesajın "kimler okudu" bilgisi tek sorguda gelir.
func (r *sqliteReceiptRepo) GetByMessageIDs(ctx context.Context, conv models.Conversation, messageIDs []string) (map[string][]models.ReadReceipt, error) {
	if len(messageIDs) == 0 {
		return make(map[string][]models.ReadReceipt), nil
	}

	t := tablesFor(conv)

	placeholders := make([]string, len(messageIDs))
	args := make([]any, len(messageIDs))
	for i, id := range messageIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT message_id, user_id, read_at
		FROM %s
		WHERE message_id IN (%s)
		ORDER BY read_at ASC`, t.reads, strings.Join(placeholders, ","))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get receipts by message ids: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]models.ReadReceipt)
	for rows.Next() {
		var receipt models.ReadReceipt
		if err := rows.Scan(&receipt.MessageID, &receipt.UserID, &receipt.ReadAt); err != nil {
			return nil, fmt.Errorf("scan receipt row: %w", err)
		}
		result[receipt.MessageID] = append(result[receipt.MessageID], receipt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate receipt rows: %w", err)
	}

	return result, nil
}

func scanReceipts(rows *sql.Rows) ([]models.ReadReceipt, error) {
	receipts := []models.ReadReceipt{}
	for rows.Next() {
		var receipt models.ReadReceipt
		if err := rows.Scan(&receipt.MessageID, &receipt.UserID, &receipt.ReadAt); err != nil {
			return nil, fmt.Errorf("scan receipt row: %w", err)
		}
		receipts = append(receipts, receipt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate receipt rows: %w", err)
	}

	return receipts, nil
}
