package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/eraydn/odak/database"
	"github.com/eraydn/odak/models"
)

// sqliteReactionRepo, ReactionRepository interface'inin SQLite implementasyonu.
type sqliteReactionRepo struct {
	db database.TxQuerier
}

func NewSQLiteReactionRepo(db database.TxQuerier) ReactionRepository {
	return &sqliteReactionRepo{db: db}
}

// Toggle, bir reaction'ı ekler veya kaldırır.
//
// Strateji: INSERT OR IGNORE ile eklemeyi dene.
// rowsAffected == 0 → UNIQUE constraint nedeniyle eklenmedi → zaten var → DELETE.
// rowsAffected == 1 → başarıyla eklendi.
//
// İki ayrı SELECT + INSERT/DELETE yerine tek atomik işlem: race condition
// riski yoktur çünkü UNIQUE constraint DB seviyesinde korunur.
func (r *sqliteReactionRepo) Toggle(ctx context.Context, conv models.Conversation, messageID, userID, emoji string) (bool, error) {
	t := tablesFor(conv)

	insertQuery := fmt.Sprintf(`
		INSERT OR IGNORE INTO %s (id, message_id, user_id, emoji)
		VALUES (lower(hex(randomblob(8))), ?, ?, ?)`, t.reactions)

	result, err := r.db.ExecContext(ctx, insertQuery, messageID, userID, emoji)
	if err != nil {
		return false, fmt.Errorf("toggle reaction insert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("toggle reaction rows affected: %w", err)
	}

	if rowsAffected > 0 {
		return true, nil
	}

	deleteQuery := fmt.Sprintf(
		`DELETE FROM %s WHERE message_id = ? AND user_id = ? AND emoji = ?`, t.reactions)
	if _, err := r.db.ExecContext(ctx, deleteQuery, messageID, userID, emoji); err != nil {
		return false, fmt.Errorf("toggle reaction delete: %w", err)
	}

	return false, nil
}

// GetByMessageID, tek bir mesajın reaction'larını gruplanmış döner.
//
// GROUP BY emoji + GROUP_CONCAT(user_id): aynı emojiler birleştirilir,
// tepki veren kullanıcı ID'leri virgülle ayrılmış gelir.
// ORDER BY MIN(created_at): emoji grupları ilk tepki sırasına göre dizilir.
func (r *sqliteReactionRepo) GetByMessageID(ctx context.Context, conv models.Conversation, messageID string) ([]models.ReactionGroup, error) {
	t := tablesFor(conv)

	query := fmt.Sprintf(`
		SELECT emoji, COUNT(*) as count, GROUP_CONCAT(user_id) as users
		FROM %s
		WHERE message_id = ?
		GROUP BY emoji
		ORDER BY MIN(created_at) ASC`, t.reactions)

	rows, err := r.db.QueryContext(ctx, query, messageID)
	if err != nil {
		return nil, fmt.Errorf("get reactions by message: %w", err)
	}
	defer rows.Close()

	return scanReactionGroups(rows)
}

// GetByMessageIDs, birden fazla mesajın reaction'larını tek sorguda yükler.
// Reaction'ı olmayan mesajlar map'te key olarak bulunmaz.
func (r *sqliteReactionRepo) GetByMessageIDs(ctx context.Context, conv models.Conversation, messageIDs []string) (map[string][]models.ReactionGroup, error) {
	if len(messageIDs) == 0 {
		return make(map[string][]models.ReactionGroup), nil
	}

	t := tablesFor(conv)

	placeholders := make([]string, len(messageIDs))
	args := make([]any, len(messageIDs))
	for i, id := range messageIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT message_id, emoji, COUNT(*) as count, GROUP_CONCAT(user_id) as users
		FROM %s
		WHERE message_id IN (%s)
		GROUP BY message_id, emoji
		ORDER BY message_id, MIN(created_at) ASC`,
		t.reactions, strings.Join(placeholders, ","))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get reactions by message ids: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]models.ReactionGroup)
	for rows.Next() {
		var messageID, emoji, usersStr string
		var count int
		if err := rows.Scan(&messageID, &emoji, &count, &usersStr); err != nil {
			return nil, fmt.Errorf("scan reaction group: %w", err)
		}

		result[messageID] = append(result[messageID], models.ReactionGroup{
			Emoji: emoji,
			Count: count,
			Users: strings.Split(usersStr, ","),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reaction rows: %w", err)
	}

	return result, nil
}

// scanReactionGroups, reaction GROUP BY sorgusunun sonuçlarını parse eder.
func scanReactionGroups(rows *sql.Rows) ([]models.ReactionGroup, error) {
	groups := []models.ReactionGroup{}
	for rows.Next() {
		var emoji, usersStr string
		var count int
		if err := rows.Scan(&emoji, &count, &usersStr); err != nil {
			return nil, fmt.Errorf("scan reaction group: %w", err)
		}

		groups = append(groups, models.ReactionGroup{
			Emoji: emoji,
			Count: count,
			Users: strings.Split(usersStr, ","),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reaction rows: %w", err)
	}

	return groups, nil
}
