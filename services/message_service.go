package services

import (
	"context"
	"fmt"
	"log"

	"github.com/eraydn/odak/metrics"
	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/pkg"
	"github.com/eraydn/odak/repository"
	"github.com/eraydn/odak/ws"
)

// defaultPageSize, mesaj listelerinin varsayılan sayfa boyutu.
const defaultPageSize = 50

// MessageService, mesaj iş mantığı.
//
// Her operasyon önce AccessChecker'dan geçer — conversation'a erişimi
// olmayan kullanıcı hiçbir mesaj operasyonu yapamaz. Başarılı yazma
// operasyonları ilgili scope'a broadcast edilir; HTTP yanıtını bekleyen
// gönderen dahil tüm aboneler aynı event'i görür.
type MessageService struct {
	messages  repository.MessageRepository
	reactions repository.ReactionRepository
	receipts  repository.ReceiptRepository
	access    *AccessChecker
	publisher ws.EventPublisher
	typing    *ws.TypingTracker
}

func NewMessageService(
	messages repository.MessageRepository,
	reactions repository.ReactionRepository,
	receipts repository.ReceiptRepository,
	access *AccessChecker,
	publisher ws.EventPublisher,
	typing *ws.TypingTracker,
) *MessageService {
	return &MessageService{
		messages:  messages,
		reactions: reactions,
		receipts:  receipts,
		access:    access,
		publisher: publisher,
		typing:    typing,
	}
}

// List, cursor-based pagination ile mesaj sayfası döner.
// Her mesaj reaction grupları ve read receipt'lerle zenginleştirilir;
// HasReacted viewer'a göre doldurulur.
func (s *MessageService) List(ctx context.Context, viewerID string, conv models.Conversation, beforeID string, limit int) (*models.MessagePage, error) {
	if err := s.access.Require(ctx, viewerID, conv); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = defaultPageSize
	}

	page, err := s.messages.List(ctx, conv, beforeID, limit)
	if err != nil {
		return nil, err
	}

	if err := s.enrich(ctx, viewerID, conv, page.Messages); err != nil {
		return nil, err
	}

	return page, nil
}

// Pinned, conversation'ın sabitlenmiş mesajlarını döner.
func (s *MessageService) Pinned(ctx context.Context, viewerID string, conv models.Conversation) ([]models.Message, error) {
	if err := s.access.Require(ctx, viewerID, conv); err != nil {
		return nil, err
	}

	messages, err := s.messages.ListPinned(ctx, conv)
	if err != nil {
		return nil, err
	}

	if err := s.enrich(ctx, viewerID, conv, messages); err != nil {
		return nil, err
	}

	return messages, nil
}

// Send, yeni mesaj gönderir ve scope'a broadcast eder.
// Mesaj gönderen kullanıcının typing göstergesi düşürülür — mesaj gelen
// birinin hâlâ "yazıyor" görünmesi tutarsız olur.
func (s *MessageService) Send(ctx context.Context, userID string, conv models.Conversation, req *models.CreateMessageRequest) (*models.Message, error) {
	if err := s.access.Require(ctx, userID, conv); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	// reply_to aynı conversation'da var olmalı — başka scope'a işaret edemez
	if req.ReplyToID != nil {
		if _, err := s.messages.GetByID(ctx, conv, *req.ReplyToID); err != nil {
			return nil, fmt.Errorf("%w: reply target not found", pkg.ErrBadRequest)
		}
	}

	message := &models.Message{
		UserID:     userID,
		Attachment: req.Attachment,
		ReplyToID:  req.ReplyToID,
	}
	if req.Content != "" {
		message.Content = &req.Content
	}

	if err := s.messages.Create(ctx, conv, message); err != nil {
		return nil, err
	}

	full, err := s.messages.GetByID(ctx, conv, message.ID)
	if err != nil {
		full = message
	}

	s.typing.StopTyping(conv.Scope(), userID)
	metrics.MessagesCreated.WithLabelValues(string(conv.Type)).Inc()

	s.publisher.BroadcastToScope(conv.Scope(), ws.Event{
		Op: ws.OpMessageCreate,
		Data: ws.MessageEventData{
			Scope:     conv.Scope(),
			MessageID: full.ID,
			Message:   full,
		},
	})

	return full, nil
}

// Edit, mesaj içeriğini değiştirir. Sadece yazar düzenleyebilir.
func (s *MessageService) Edit(ctx context.Context, userID string, conv models.Conversation, messageID string, req *models.UpdateMessageRequest) (*models.Message, error) {
	if err := s.access.Require(ctx, userID, conv); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	existing, err := s.messages.GetByID(ctx, conv, messageID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, fmt.Errorf("%w: only the author can edit a message", pkg.ErrForbidden)
	}

	if err := s.messages.UpdateContent(ctx, conv, messageID, req.Content); err != nil {
		return nil, err
	}

	updated, err := s.messages.GetByID(ctx, conv, messageID)
	if err != nil {
		return nil, err
	}

	enriched := []models.Message{*updated}
	if err := s.enrich(ctx, userID, conv, enriched); err != nil {
		return nil, err
	}
	full := &enriched[0]

	s.publisher.BroadcastToScope(conv.Scope(), ws.Event{
		Op: ws.OpMessageUpdate,
		Data: ws.MessageEventData{
			Scope:     conv.Scope(),
			MessageID: full.ID,
			Message:   full,
		},
	})

	return full, nil
}

// Delete, mesajı siler. Sadece yazar silebilir.
func (s *MessageService) Delete(ctx context.Context, userID string, conv models.Conversation, messageID string) error {
	if err := s.access.Require(ctx, userID, conv); err != nil {
		return err
	}

	existing, err := s.messages.GetByID(ctx, conv, messageID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return fmt.Errorf("%w: only the author can delete a message", pkg.ErrForbidden)
	}

	if err := s.messages.Delete(ctx, conv, messageID); err != nil {
		return err
	}

	s.publisher.BroadcastToScope(conv.Scope(), ws.Event{
		Op: ws.OpMessageDelete,
		Data: ws.MessageEventData{
			Scope:     conv.Scope(),
			MessageID: messageID,
		},
	})

	log.Printf("[message] deleted %s in %s by %s", messageID, conv.Scope(), userID)
	return nil
}

// SetPinned, mesajı sabitler veya sabitlemeyi kaldırır.
// Yazar kısıtı yoktur — conversation'a erişen herkes pin'leyebilir.
func (s *MessageService) SetPinned(ctx context.Context, userID string, conv models.Conversation, messageID string, pinned bool) (*models.Message, error) {
	if err := s.access.Require(ctx, userID, conv); err != nil {
		return nil, err
	}

	if err := s.messages.SetPinned(ctx, conv, messageID, pinned); err != nil {
		return nil, err
	}

	full, err := s.messages.GetByID(ctx, conv, messageID)
	if err != nil {
		return nil, err
	}

	op := ws.OpMessagePin
	if !pinned {
		op = ws.OpMessageUnpin
	}

	s.publisher.BroadcastToScope(conv.Scope(), ws.Event{
		Op: op,
		Data: ws.MessageEventData{
			Scope:     conv.Scope(),
			MessageID: full.ID,
			Message:   full,
		},
	})

	return full, nil
}

// enrich, mesajlara reaction gruplarını ve read receipt'leri batch yükler.
// HasReacted viewer'ın Users listesinde olup olmamasından türetilir.
func (s *MessageService) enrich(ctx context.Context, viewerID string, conv models.Conversation, messages []models.Message) error {
	if len(messages) == 0 {
		return nil
	}

	ids := make([]string, len(messages))
	for i, msg := range messages {
		ids[i] = msg.ID
	}

	reactionsByID, err := s.reactions.GetByMessageIDs(ctx, conv, ids)
	if err != nil {
		return err
	}
	receiptsByID, err := s.receipts.GetByMessageIDs(ctx, conv, ids)
	if err != nil {
		return err
	}

	for i := range messages {
		msg := &messages[i]

		if groups, ok := reactionsByID[msg.ID]; ok {
			for gi := range groups {
				groups[gi].HasReacted = containsUser(groups[gi].Users, viewerID)
			}
			msg.Reactions = groups
		}

		if receipts, ok := receiptsByID[msg.ID]; ok {
			msg.ReadBy = receipts
		}
	}

	return nil
}

func containsUser(users []string, userID string) bool {
	for _, u := range users {
		if u == userID {
			return true
		}
	}
	return false
}
