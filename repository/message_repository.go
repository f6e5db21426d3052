package repository

import (
	"context"
	"time"

	"github.com/eraydn/odak/models"
)

// MessageRepository, mesaj veritabanı işlemleri için interface.
//
// Her operasyon bir Conversation alır — grup mesajları "messages",
// thread mesajları "side_thread_messages" tablosunda yaşar ve doğru
// tablo conversation tipinden seçilir.
//
// List: Cursor-based pagination. beforeID boşsa en yeni sayfa,
// doluysa o mesajdan eski sayfa döner. Sonuçlar en eskiden yeniye sıralıdır.
//
// CountSince: Okunmamış sayacı sorgusu. Watermark'tan sonra oluşturulan,
// kullanıcının KENDİSİNE ait olmayan mesajları sayar — kendi mesajı
// kimseye "okunmamış" görünmez. since nil ise baştan itibaren sayılır.
type MessageRepository interface {
	Create(ctx context.Context, conv models.Conversation, message *models.Message) error
	GetByID(ctx context.Context, conv models.Conversation, id string) (*models.Message, error)
	List(ctx context.Context, conv models.Conversation, beforeID string, limit int) (*models.MessagePage, error)
	ListAll(ctx context.Context, conv models.Conversation) ([]models.Message, error)
	UpdateContent(ctx context.Context, conv models.Conversation, id, content string) error
	Delete(ctx context.Context, conv models.Conversation, id string) error
	SetPinned(ctx context.Context, conv models.Conversation, id string, pinned bool) error
	ListPinned(ctx context.Context, conv models.Conversation) ([]models.Message, error)
	CountSince(ctx context.Context, conv models.Conversation, userID string, since *time.Time) (int, error)
}
