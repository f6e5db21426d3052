package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/pkg"
	"github.com/eraydn/odak/repository"
	"github.com/eraydn/odak/ws"
)

// ReactionService, emoji reaction iş mantığı.
type ReactionService struct {
	reactions repository.ReactionRepository
	messages  repository.MessageRepository
	access    *AccessChecker
	publisher ws.EventPublisher
}

func NewReactionService(
	reactions repository.ReactionRepository,
	messages repository.MessageRepository,
	access *AccessChecker,
	publisher ws.EventPublisher,
) *ReactionService {
	return &ReactionService{
		reactions: reactions,
		messages:  messages,
		access:    access,
		publisher: publisher,
	}
}

// Toggle, reaction'ı ekler veya kaldırır ve güncel reaction listesini döner.
//
// Broadcast edilen liste viewer'dan bağımsızdır — HasReacted her alıcı
// tarafında Users listesinden türetilir. HTTP yanıtındaki listede ise
// HasReacted isteği yapan kullanıcıya göre doldurulur.
func (s *ReactionService) Toggle(ctx context.Context, userID string, conv models.Conversation, messageID, emoji string) ([]models.ReactionGroup, error) {
	if err := s.access.Require(ctx, userID, conv); err != nil {
		return nil, err
	}

	if emoji == "" || utf8.RuneCountInString(emoji) > 32 {
		return nil, fmt.Errorf("%w: invalid emoji", pkg.ErrBadRequest)
	}

	// Mesaj gerçekten bu conversation'da mı? Yoksa 404.
	message, err := s.messages.GetByID(ctx, conv, messageID)
	if err != nil {
		return nil, err
	}

	added, err := s.reactions.Toggle(ctx, conv, messageID, userID, emoji)
	if err != nil {
		return nil, err
	}

	groups, err := s.reactions.GetByMessageID(ctx, conv, messageID)
	if err != nil {
		return nil, err
	}

	s.publisher.BroadcastToScope(conv.Scope(), ws.Event{
		Op: ws.OpReactionUpdate,
		Data: ws.ReactionUpdateData{
			Scope:           conv.Scope(),
			MessageID:       messageID,
			Reactions:       groups,
			ActorID:         userID,
			MessageAuthorID: message.UserID,
			Added:           added,
		},
	})

	// HTTP yanıtı için viewer bazlı kopya
	result := make([]models.ReactionGroup, len(groups))
	copy(result, groups)
	for i := range result {
		result[i].HasReacted = containsUser(result[i].Users, userID)
	}

	return result, nil
}
