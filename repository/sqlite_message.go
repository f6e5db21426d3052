package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eraydn/odak/database"
	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/pkg"
)

// sqlTimeFormat, Go tarafından bind edilen zaman değerlerinin formatı.
//
// CURRENT_TIMESTAMP kolonları SQLite'ta "YYYY-MM-DD HH:MM:SS" (UTC) metni
// olarak saklanır. created_at > ? karşılaştırması metinsel (lexicographic)
// yapıldığı için bind edilen değer AYNI formatta ve UTC olmak zorundadır —
// RFC3339 bind edilirse karşılaştırma sessizce yanlış sonuç verir.
const sqlTimeFormat = "2006-01-02 15:04:05"

// messageColumns, mesaj SELECT'lerinin ortak kolon listesi (yazar JOIN'i dahil).
const messageColumns = `
	m.id, m.user_id, m.content, m.is_ai,
	m.attachment_url, m.attachment_name, m.attachment_type, m.attachment_size,
	m.reply_to_id, m.pinned, m.edited_at, m.created_at,
	u.id, u.email, u.username, u.display_name, u.avatar_url, u.created_at`

// sqliteMessageRepo, MessageRepository interface'inin SQLite implementasyonu.
type sqliteMessageRepo struct {
	db database.TxQuerier
}

func NewSQLiteMessageRepo(db database.TxQuerier) MessageRepository {
	return &sqliteMessageRepo{db: db}
}

// Create, mesajı conversation'ın tablosuna yazar.
//
// message.ID doluysa o ID kullanılır — AI mesajları stream başlamadan
// önce üretilmiş UUID ile kalıcılaşır, client aynı ID'yi delta
// event'lerinden zaten biliyordur. Boşsa DB üretir.
func (r *sqliteMessageRepo) Create(ctx context.Context, conv models.Conversation, message *models.Message) error {
	t := tablesFor(conv)

	query := fmt.Sprintf(`
		INSERT INTO %s (id, %s, user_id, content, is_ai,
			attachment_url, attachment_name, attachment_type, attachment_size, reply_to_id)
		VALUES (COALESCE(NULLIF(?, ''), lower(hex(randomblob(8)))), ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at`, t.messages, t.parentCol)

	var attURL, attName, attType *string
	var attSize *int64
	if message.Attachment != nil {
		attURL = &message.Attachment.URL
		attName = &message.Attachment.Name
		attType = &message.Attachment.Type
		attSize = &message.Attachment.Size
	}

	err := r.db.QueryRowContext(ctx, query,
		message.ID,
		conv.ID,
		message.UserID,
		message.Content,
		message.IsAI,
		attURL, attName, attType, attSize,
		message.ReplyToID,
	).Scan(&message.ID, &message.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	message.Conversation = conv
	return nil
}

func (r *sqliteMessageRepo) GetByID(ctx context.Context, conv models.Conversation, id string) (*models.Message, error) {
	t := tablesFor(conv)

	// LEFT JOIN — kullanıcı silinmiş olsa bile mesaj görünür.
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s m
		LEFT JOIN users u ON m.user_id = u.id
		WHERE m.id = ? AND m.%s = ?`, messageColumns, t.messages, t.parentCol)

	row := r.db.QueryRowContext(ctx, query, id, conv.ID)
	msg, err := scanMessageRow(row.Scan, conv)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message by id: %w", err)
	}

	return msg, nil
}

// List, cursor-based pagination ile mesaj sayfası döner.
//
// limit+1 hilesi: Bir fazla satır çekilir; fazlalık geldiyse HasMore=true,
// fazlalık sayfadan atılır. Ayrı bir COUNT sorgusuna gerek kalmaz.
// Sorgu DESC çeker, sonuç döndürülmeden önce ters çevrilir —
// sayfa her zaman en eskiden yeniye sıralıdır.
func (r *sqliteMessageRepo) List(ctx context.Context, conv models.Conversation, beforeID string, limit int) (*models.MessagePage, error) {
	t := tablesFor(conv)

	var query string
	var args []any

	if beforeID == "" {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s m
			LEFT JOIN users u ON m.user_id = u.id
			WHERE m.%s = ?
			ORDER BY m.created_at DESC, m.id DESC
			LIMIT ?`, messageColumns, t.messages, t.parentCol)
		args = []any{conv.ID, limit + 1}
	} else {
		// Cursor: beforeID'nin created_at değerinden önceki mesajlar.
		// Aynı saniyede birden fazla mesaj olabilir — (created_at, id)
		// ikilisi ile kırılma çözülür.
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s m
			LEFT JOIN users u ON m.user_id = u.id
			WHERE m.%s = ?
			  AND (m.created_at, m.id) < (SELECT created_at, id FROM %s WHERE id = ?)
			ORDER BY m.created_at DESC, m.id DESC
			LIMIT ?`, messageColumns, t.messages, t.parentCol, t.messages)
		args = []any{conv.ID, beforeID, limit + 1}
	}

	messages, err := r.queryMessages(ctx, conv, query, args...)
	if err != nil {
		return nil, err
	}

	hasMore := len(messages) > limit
	if hasMore {
		messages = messages[:limit]
	}

	// DESC çekildi — en eskiden yeniye çevir
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return &models.MessagePage{Messages: messages, HasMore: hasMore}, nil
}

// ListAll, conversation'ın TÜM mesajlarını eskiden yeniye döner.
// Thread özetleme için kullanılır — özet, konuşmanın tamamını görmelidir.
func (r *sqliteMessageRepo) ListAll(ctx context.Context, conv models.Conversation) ([]models.Message, error) {
	t := tablesFor(conv)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s m
		LEFT JOIN users u ON m.user_id = u.id
		WHERE m.%s = ?
		ORDER BY m.created_at ASC, m.id ASC`, messageColumns, t.messages, t.parentCol)

	return r.queryMessages(ctx, conv, query, conv.ID)
}

// UpdateContent, mesaj içeriğini değiştirir ve edited_at damgasını basar.
func (r *sqliteMessageRepo) UpdateContent(ctx context.Context, conv models.Conversation, id, content string) error {
	t := tablesFor(conv)

	query := fmt.Sprintf(`
		UPDATE %s SET content = ?, edited_at = CURRENT_TIMESTAMP WHERE id = ?`, t.messages)

	result, err := r.db.ExecContext(ctx, query, content, id)
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update message rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

// Delete, mesajı kalıcı olarak siler.
// Reaction ve read receipt satırları FK cascade ile birlikte düşer.
func (r *sqliteMessageRepo) Delete(ctx context.Context, conv models.Conversation, id string) error {
	t := tablesFor(conv)

	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, t.messages), id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete message rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *sqliteMessageRepo) SetPinned(ctx context.Context, conv models.Conversation, id string, pinned bool) error {
	t := tablesFor(conv)

	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET pinned = ? WHERE id = ?`, t.messages), pinned, id)
	if err != nil {
		return fmt.Errorf("failed to set message pinned: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set pinned rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *sqliteMessageRepo) ListPinned(ctx context.Context, conv models.Conversation) ([]models.Message, error) {
	t := tablesFor(conv)

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s m
		LEFT JOIN users u ON m.user_id = u.id
		WHERE m.%s = ? AND m.pinned = 1
		ORDER BY m.created_at ASC`, messageColumns, t.messages, t.parentCol)

	return r.queryMessages(ctx, conv, query, conv.ID)
}

// CountSince, watermark sonrası okunmamış mesajları sayar.
// Kullanıcının kendi mesajları sayılmaz. since nil ise tüm geçmiş sayılır.
// Sonuç tanım gereği >= 0'dır; watermark gelecekte olsa bile COUNT negatif dönemez.
func (r *sqliteMessageRepo) CountSince(ctx context.Context, conv models.Conversation, userID string, since *time.Time) (int, error) {
	t := tablesFor(conv)

	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s WHERE %s = ? AND user_id != ?`, t.messages, t.parentCol)
	args := []any{conv.ID, userID}

	if since != nil {
		query += ` AND created_at > ?`
		args = append(args, since.UTC().Format(sqlTimeFormat))
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}

	return count, nil
}

// queryMessages, mesaj listesi sorgularının ortak yürütücüsü.
func (r *sqliteMessageRepo) queryMessages(ctx context.Context, conv models.Conversation, query string, args ...any) ([]models.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		msg, err := scanMessageRow(rows.Scan, conv)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, *msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate message rows: %w", err)
	}

	return messages, nil
}

// scanMessageRow, messageColumns sırasındaki bir satırı Message'a çevirir.
// Scan fonksiyonu alması hem QueryRow hem Query sonuçlarıyla çalışmasını sağlar.
func scanMessageRow(scan func(...any) error, conv models.Conversation) (*models.Message, error) {
	msg := &models.Message{Conversation: conv}
	var author models.User
	var authorID sql.NullString
	var authorCreatedAt sql.NullTime
	var attURL, attName, attType *string
	var attSize *int64

	err := scan(
		&msg.ID, &msg.UserID, &msg.Content, &msg.IsAI,
		&attURL, &attName, &attType, &attSize,
		&msg.ReplyToID, &msg.Pinned, &msg.EditedAt, &msg.CreatedAt,
		&authorID, &author.Email, &author.Username,
		&author.DisplayName, &author.AvatarURL, &authorCreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if attURL != nil {
		msg.Attachment = &models.Attachment{URL: *attURL}
		if attName != nil {
			msg.Attachment.Name = *attName
		}
		if attType != nil {
			msg.Attachment.Type = *attType
		}
		if attSize != nil {
			msg.Attachment.Size = *attSize
		}
	}

	if authorID.Valid {
		author.ID = authorID.String
		author.CreatedAt = authorCreatedAt.Time
		msg.Author = &author
	}

	// nil slice yerine boş slice — JSON'da null değil [] görünür
	msg.Reactions = []models.ReactionGroup{}
	msg.ReadBy = []models.ReadReceipt{}

	return msg, nil
}
