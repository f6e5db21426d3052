package services

import (
	"context"

	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/repository"
	"github.com/eraydn/odak/ws"
)

// ReceiptService, read receipt iş mantığı.
type ReceiptService struct {
	receipts  repository.ReceiptRepository
	messages  repository.MessageRepository
	access    *AccessChecker
	publisher ws.EventPublisher
}

func NewReceiptService(
	receipts repository.ReceiptRepository,
	messages repository.MessageRepository,
	access *AccessChecker,
	publisher ws.EventPublisher,
) *ReceiptService {
	return &ReceiptService{
		receipts:  receipts,
		messages:  messages,
		access:    access,
		publisher: publisher,
	}
}

// Mark, mesajı okundu olarak işaretler.
//
// İdempotent: Aynı mesaj ikinci kez işaretlenirse hata dönmez, mevcut
// receipt döner ve broadcast YAPILMAZ — aboneler aynı receipt'i iki kez
// görmez. Broadcast sadece receipt gerçekten yeni oluştuğunda gider.
func (s *ReceiptService) Mark(ctx context.Context, userID string, conv models.Conversation, messageID string) (*models.ReadReceipt, error) {
	if err := s.access.Require(ctx, userID, conv); err != nil {
		return nil, err
	}

	// Mesaj bu conversation'da var mı? Yoksa 404.
	if _, err := s.messages.GetByID(ctx, conv, messageID); err != nil {
		return nil, err
	}

	created, receipt, err := s.receipts.Mark(ctx, conv, messageID, userID)
	if err != nil {
		return nil, err
	}

	if created {
		s.publisher.BroadcastToScope(conv.Scope(), ws.Event{
			Op: ws.OpReceiptCreate,
			Data: ws.ReceiptCreateData{
				Scope:   conv.Scope(),
				Receipt: *receipt,
			},
		})
	}

	return receipt, nil
}

// ListByMessage, bir mesajı kimlerin okuduğunu döner.
func (s *ReceiptService) ListByMessage(ctx context.Context, userID string, conv models.Conversation, messageID string) ([]models.ReadReceipt, error) {
	if err := s.access.Require(ctx, userID, conv); err != nil {
		return nil, err
	}
	return s.receipts.GetByMessageID(ctx, conv, messageID)
}
