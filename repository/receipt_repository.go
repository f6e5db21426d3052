package repository

import (
	"context"

	"github.com/eraydn/odak/models"
)

// ReceiptRepository, read receipt veritabanı işlemleri için interface.
//
// Mark idempotent'tir: (message_id, user_id) başına en fazla bir satır
// vardır, satır asla güncellenmez veya silinmez. Aynı mesajı ikinci kez
// "okudum" demek no-op'tur — created=false döner ve çağıran taraf
// broadcast yapmaz.
type ReceiptRepository interface {
	Mark(ctx context.Context, conv models.Conversation, messageID, userID string) (created bool, receipt *models.ReadReceipt, err error)
	GetByMessageID(ctx context.Context, conv models.Conversation, messageID string) ([]models.ReadReceipt, error)
	GetByMessageIDs(ctx context.Context, conv models.Conversation, messageIDs []string) (map[string][]models.ReadReceipt, error)
}
