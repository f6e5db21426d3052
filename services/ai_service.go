package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/eraydn/odak/ai"
	"github.com/eraydn/odak/metrics"
	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/pkg"
	"github.com/eraydn/odak/repository"
	"github.com/eraydn/odak/ws"
)

// chatHistoryLimit: AI'ya gönderilen konuşma geçmişi penceresi.
// Tüm thread'i göndermek token maliyetini şişirir; son 30 mesaj yeter.
const chatHistoryLimit = 30

// ChatStreamer, streaming asistan yanıtı üretir (ai.Client sağlar).
// chatContext, gateway'in opsiyonel context alanına gider.
type ChatStreamer interface {
	StreamChat(ctx context.Context, messages []ai.ChatMessage, chatContext string, onDelta func(delta string)) (string, error)
}

// AIService, side thread içi AI asistan iş mantığı.
//
// Asistan sadece side thread'lerde çalışır — ana grupta AI'nın görünen
// tek izi thread özetleridir.
type AIService struct {
	streamer  ChatStreamer
	messages  repository.MessageRepository
	threads   repository.ThreadRepository
	access    *AccessChecker
	publisher ws.EventPublisher
	typing    *ws.TypingTracker
}

func NewAIService(
	streamer ChatStreamer,
	messages repository.MessageRepository,
	threads repository.ThreadRepository,
	access *AccessChecker,
	publisher ws.EventPublisher,
	typing *ws.TypingTracker,
) *AIService {
	return &AIService{
		streamer:  streamer,
		messages:  messages,
		threads:   threads,
		access:    access,
		publisher: publisher,
		typing:    typing,
	}
}

// Chat, kullanıcının prompt'unu thread'e yazar ve asistan yanıtını stream eder.
//
// Akış:
//  1. Prompt normal bir thread mesajı olarak kalıcılaşır ve broadcast edilir
//  2. Yanıt mesajının ID'si stream BAŞLAMADAN üretilir — client delta'ları
//     hangi balona ekleyeceğini ilk byte'tan önce bilir
//  3. Her delta ai_stream_delta olarak thread scope'una broadcast edilir
//  4. Stream bitince tamamlanmış yanıt aynı ID ile is_ai mesajı olarak
//     kalıcılaşır; done=true ile kapanış event'i gider
//
// Stream yarıda koparsa o ana kadar biriken içerik yine kalıcılaşır —
// yarım yanıt, kaybolan yanıttan iyidir.
func (s *AIService) Chat(ctx context.Context, userID, threadID, prompt string) (*models.Message, error) {
	conv := models.Conversation{Type: models.ConversationThread, ID: threadID}

	if err := s.access.Require(ctx, userID, conv); err != nil {
		return nil, err
	}
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", pkg.ErrBadRequest)
	}

	// 1. Prompt'u normal mesaj olarak yaz
	userMsg := &models.Message{UserID: userID, Content: &prompt}
	if err := s.messages.Create(ctx, conv, userMsg); err != nil {
		return nil, err
	}
	metrics.MessagesCreated.WithLabelValues(string(conv.Type)).Inc()
	s.typing.StopTyping(conv.Scope(), userID)

	if full, err := s.messages.GetByID(ctx, conv, userMsg.ID); err == nil {
		s.publisher.BroadcastToScope(conv.Scope(), ws.Event{
			Op: ws.OpMessageCreate,
			Data: ws.MessageEventData{
				Scope:     conv.Scope(),
				MessageID: full.ID,
				Message:   full,
			},
		})
	}

	// 2. Geçmişi topla ve yanıt ID'sini önceden üret
	history, err := s.buildHistory(ctx, conv)
	if err != nil {
		return nil, err
	}
	replyID := uuid.NewString()

	// Thread adı gateway'e context ipucu olarak gider — model konuşmanın
	// hangi başlık altında geçtiğini bilir. Ad yüklenemezse context'siz devam.
	chatContext := ""
	if thread, err := s.threads.GetByID(ctx, threadID); err == nil {
		chatContext = "Side thread: " + thread.Name
	}

	// 3. Stream — her delta anında broadcast
	reply, streamErr := s.streamer.StreamChat(ctx, history, chatContext, func(delta string) {
		s.publisher.BroadcastToScope(conv.Scope(), ws.Event{
			Op: ws.OpAIStreamDelta,
			Data: ws.AIStreamDeltaData{
				Scope:     conv.Scope(),
				MessageID: replyID,
				Delta:     delta,
			},
		})
	})

	if streamErr != nil && reply == "" {
		return nil, fmt.Errorf("ai chat failed: %w", streamErr)
	}
	if streamErr != nil {
		log.Printf("[ai] stream interrupted for thread %s, persisting partial reply: %v", threadID, streamErr)
	}

	// 4. Tamamlanan yanıtı aynı ID ile kalıcılaştır
	replyMsg := &models.Message{ID: replyID, UserID: userID, Content: &reply, IsAI: true}
	if err := s.messages.Create(ctx, conv, replyMsg); err != nil {
		return nil, err
	}
	metrics.MessagesCreated.WithLabelValues(string(conv.Type)).Inc()

	full, err := s.messages.GetByID(ctx, conv, replyID)
	if err != nil {
		full = replyMsg
	}

	s.publisher.BroadcastToScope(conv.Scope(), ws.Event{
		Op: ws.OpAIStreamDelta,
		Data: ws.AIStreamDeltaData{
			Scope:     conv.Scope(),
			MessageID: replyID,
			Done:      true,
		},
	})
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

// buildHistory, thread'in son mesajlarını AI sözleşmesine çevirir.
// is_ai mesajları assistant, insan mesajları "Ad: içerik" formatıyla user olur —
// model çok katılımcılı konuşmada kimin konuştuğunu ayırt edebilir.
func (s *AIService) buildHistory(ctx context.Context, conv models.Conversation) ([]ai.ChatMessage, error) {
	page, err := s.messages.List(ctx, conv, "", chatHistoryLimit)
	if err != nil {
		return nil, err
	}

	history := make([]ai.ChatMessage, 0, len(page.Messages))
	for _, msg := range page.Messages {
		if msg.Content == nil {
			continue
		}

		if msg.IsAI {
			history = append(history, ai.ChatMessage{Role: "assistant", Content: *msg.Content})
			continue
		}

		name := "Unknown"
		if msg.Author != nil {
			name = msg.Author.Name()
		}
		history = append(history, ai.ChatMessage{Role: "user", Content: name + ": " + *msg.Content})
	}

	return history, nil
}
