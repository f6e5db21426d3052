package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/pkg"
	"github.com/eraydn/odak/repository"
	"github.com/eraydn/odak/ws"
)

// Summarizer, thread dökümünden özet üretir (ai.Client sağlar).
// Interface olması testlerde sahte özetleyici bağlamayı mümkün kılar.
type Summarizer interface {
	Summarize(ctx context.Context, threadName, transcript string) (string, error)
}

// ThreadService, side thread yaşam döngüsü iş mantığı.
//
// Side thread kuralları:
//   - Thread bir gruba bağlıdır; sadece grup üyeleri thread açabilir
//   - Katılımcılar grup üyelerinden seçilir; oluşturan otomatik katılımcıdır
//   - Thread'i sadece katılımcıları görür — listede bile görünmez
//   - Özetleme: thread dökümü AI'ya gider, özet ana gruba mesaj olarak düşer
type ThreadService struct {
	threads    repository.ThreadRepository
	groups     repository.GroupRepository
	messages   repository.MessageRepository
	summarizer Summarizer
	feed       *ws.EventFeed
	publisher  ws.EventPublisher
}

func NewThreadService(
	threads repository.ThreadRepository,
	groups repository.GroupRepository,
	messages repository.MessageRepository,
	summarizer Summarizer,
	feed *ws.EventFeed,
	publisher ws.EventPublisher,
) *ThreadService {
	return &ThreadService{
		threads:    threads,
		groups:     groups,
		messages:   messages,
		summarizer: summarizer,
		feed:       feed,
		publisher:  publisher,
	}
}

// Create, yeni side thread açar.
// Her katılımcı adayı grup üyesi olmalıdır; olmayan varsa istek reddedilir.
func (s *ThreadService) Create(ctx context.Context, userID, groupID string, req *models.CreateThreadRequest) (*models.SideThread, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	ok, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: not a member of this group", pkg.ErrForbidden)
	}

	for _, participantID := range req.ParticipantIDs {
		member, err := s.groups.IsMember(ctx, groupID, participantID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, fmt.Errorf("%w: participant %s is not a group member", pkg.ErrBadRequest, participantID)
		}
	}

	thread := &models.SideThread{GroupID: groupID, Name: req.Name, CreatedBy: userID}
	if err := s.threads.Create(ctx, thread); err != nil {
		return nil, err
	}

	// Oluşturan her zaman katılımcıdır — listede olmasa bile
	if err := s.threads.AddParticipant(ctx, thread.ID, userID); err != nil {
		return nil, err
	}
	for _, participantID := range req.ParticipantIDs {
		if err := s.threads.AddParticipant(ctx, thread.ID, participantID); err != nil {
			return nil, err
		}
	}

	// Grup şeridine duyur — thread'in İÇERİĞİ değil, varlığı herkese görünür
	groupScope := models.Conversation{Type: models.ConversationGroup, ID: groupID}.Scope()
	s.feed.Record(ctx, groupScope, ws.SystemEventThreadCreate, userID, thread.Name)

	log.Printf("[thread] created: %s (%s) in group %s by %s", thread.Name, thread.ID, groupID, userID)
	return thread, nil
}

// List, gruptaki thread'lerden kullanıcının katılımcısı olduklarını döner.
func (s *ThreadService) List(ctx context.Context, userID, groupID string) ([]models.SideThread, error) {
	ok, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: not a member of this group", pkg.ErrForbidden)
	}

	return s.threads.ListByGroupForUser(ctx, groupID, userID)
}

// Get, thread'i döner — katılımcı olmayan için thread YOKTUR (404, 403 değil;
// varlığını bile sızdırmayız).
func (s *ThreadService) Get(ctx context.Context, userID, threadID string) (*models.SideThread, error) {
	thread, err := s.threads.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	ok, err := s.threads.IsParticipant(ctx, threadID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkg.ErrNotFound
	}

	return thread, nil
}

// Participants, thread katılımcı listesini döner.
func (s *ThreadService) Participants(ctx context.Context, userID, threadID string) ([]models.ThreadParticipant, error) {
	if _, err := s.Get(ctx, userID, threadID); err != nil {
		return nil, err
	}
	return s.threads.ListParticipants(ctx, threadID)
}

// AddParticipant, thread'e yeni katılımcı ekler.
// Ekleyen katılımcı olmalı, eklenen grup üyesi olmalı.
func (s *ThreadService) AddParticipant(ctx context.Context, userID, threadID, newUserID string) error {
	thread, err := s.Get(ctx, userID, threadID)
	if err != nil {
		return err
	}

	member, err := s.groups.IsMember(ctx, thread.GroupID, newUserID)
	if err != nil {
		return err
	}
	if !member {
		return fmt.Errorf("%w: user is not a group member", pkg.ErrBadRequest)
	}

	return s.threads.AddParticipant(ctx, threadID, newUserID)
}

// Leave, kullanıcıyı thread'den çıkarır.
func (s *ThreadService) Leave(ctx context.Context, userID, threadID string) error {
	return s.threads.RemoveParticipant(ctx, threadID, userID)
}

// SummarizeToGroup, thread konuşmasını özetleyip ana gruba mesaj olarak gönderir.
//
// Akış:
//  1. Katılımcı kontrolü — özeti sadece thread'in içindekiler tetikleyebilir
//  2. Thread'in TÜM mesajları döküme çevrilir ("Ad: içerik" satırları)
//  3. AI gateway özet üretir
//  4. Özet, tetikleyen kullanıcı adına is_ai işaretli bir grup mesajı olur
//  5. Grup scope'una message_create broadcast edilir — thread'i hiç
//     görmeyen üyeler de özeti anında görür
func (s *ThreadService) SummarizeToGroup(ctx context.Context, userID, threadID string) (*models.SummarizeResult, error) {
	thread, err := s.Get(ctx, userID, threadID)
	if err != nil {
		return nil, err
	}

	threadConv := models.Conversation{Type: models.ConversationThread, ID: threadID}
	messages, err := s.messages.ListAll(ctx, threadConv)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("%w: thread has no messages to summarize", pkg.ErrBadRequest)
	}

	transcript := buildTranscript(messages)

	summary, err := s.summarizer.Summarize(ctx, thread.Name, transcript)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize thread: %w", err)
	}

	content := "🤖 AI Summary — " + thread.Name + ":\n" + summary
	groupConv := models.Conversation{Type: models.ConversationGroup, ID: thread.GroupID}

	summaryMsg := &models.Message{UserID: userID, Content: &content, IsAI: true}
	if err := s.messages.Create(ctx, groupConv, summaryMsg); err != nil {
		return nil, err
	}

	// Yazar JOIN'li tam hali broadcast edilir
	full, err := s.messages.GetByID(ctx, groupConv, summaryMsg.ID)
	if err != nil {
		full = summaryMsg
	}

	s.publisher.BroadcastToScope(groupConv.Scope(), ws.Event{
		Op: ws.OpMessageCreate,
		Data: ws.MessageEventData{
			Scope:     groupConv.Scope(),
			MessageID: full.ID,
			Message:   full,
		},
	})

	log.Printf("[thread] summarized %s into group %s by %s", threadID, thread.GroupID, userID)
	return &models.SummarizeResult{Message: full}, nil
}

// buildTranscript, mesaj listesini AI'ya gidecek düz metin dökümüne çevirir.
func buildTranscript(messages []models.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		name := "Unknown"
		if msg.Author != nil {
			name = msg.Author.Name()
		}
		if msg.IsAI {
			name = "AI Assistant"
		}

		content := ""
		if msg.Content != nil {
			content = *msg.Content
		} else if msg.Attachment != nil {
			content = "[file: " + msg.Attachment.Name + "]"
		}

		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String()
}
