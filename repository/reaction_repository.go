package repository

import (
	"context"

	"github.com/eraydn/odak/models"
)

// ReactionRepository, emoji reaction veritabanı işlemleri için interface.
//
// Toggle: Bir reaction'ı ekler veya kaldırır (toggle pattern).
//   - UNIQUE(message_id, user_id, emoji) constraint sayesinde aynı reaction
//     zaten varsa INSERT başarısız olur → DELETE yapılır.
//   - added=true: Yeni reaction eklendi, added=false: Mevcut reaction kaldırıldı.
//
// GetByMessageID: Tek bir mesajın reaction'larını gruplanmış döner.
// GetByMessageIDs: Batch yükleme — N+1 önleme (50 mesaj, tek sorgu).
type ReactionRepository interface {
	Toggle(ctx context.Context, conv models.Conversation, messageID, userID, emoji string) (added bool, err error)
	GetByMessageID(ctx context.Context, conv models.Conversation, messageID string) ([]models.ReactionGroup, error)
	GetByMessageIDs(ctx context.Context, conv models.Conversation, messageIDs []string) (map[string][]models.ReactionGroup, error)
}
