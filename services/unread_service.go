package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/pkg/kvstore"
	"github.com/eraydn/odak/repository"
)

// UnreadService, okunmamış mesaj sayaçları iş mantığı.
//
// Watermark modeli: Her kullanıcı için scope → "en son ne zaman okudu"
// map'i tutulur (kvstore'da 'unread:<userID>' key'i altında JSON).
// Bir conversation'ın unread sayısı, watermark'tan SONRA oluşturulan ve
// kullanıcının kendisine ait OLMAYAN mesajların sayısıdır.
//
// Watermark hiç yoksa conversation'ın tüm (başkalarına ait) mesajları
// okunmamış sayılır — yeni katılan üye geçmişi "okunmamış" görür.
type UnreadService struct {
	store    kvstore.Store
	messages repository.MessageRepository
	groups   repository.GroupRepository
	threads  repository.ThreadRepository
	access   *AccessChecker
}

func NewUnreadService(
	store kvstore.Store,
	messages repository.MessageRepository,
	groups repository.GroupRepository,
	threads repository.ThreadRepository,
	access *AccessChecker,
) *UnreadService {
	return &UnreadService{
		store:    store,
		messages: messages,
		groups:   groups,
		threads:  threads,
		access:   access,
	}
}

// watermarkKey, kullanıcının watermark map'inin kvstore key'i.
func watermarkKey(userID string) string {
	return "unread:" + userID
}

// Counts, kullanıcının TÜM conversation'larının unread sayılarını döner
// (sidebar badge'leri — üyesi olduğu gruplar + katılımcısı olduğu thread'ler).
func (s *UnreadService) Counts(ctx context.Context, userID string) ([]models.UnreadInfo, error) {
	watermarks, err := s.loadWatermarks(ctx, userID)
	if err != nil {
		return nil, err
	}

	groups, err := s.groups.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	infos := []models.UnreadInfo{}
	for _, group := range groups {
		conv := models.Conversation{Type: models.ConversationGroup, ID: group.ID}
		info, err := s.countFor(ctx, userID, conv, watermarks)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)

		threads, err := s.threads.ListByGroupForUser(ctx, group.ID, userID)
		if err != nil {
			return nil, err
		}
		for _, thread := range threads {
			threadConv := models.Conversation{Type: models.ConversationThread, ID: thread.ID}
			info, err := s.countFor(ctx, userID, threadConv, watermarks)
			if err != nil {
				return nil, err
			}
			infos = append(infos, info)
		}
	}

	return infos, nil
}

// Count, tek bir conversation'ın unread sayısını döner.
func (s *UnreadService) Count(ctx context.Context, userID string, conv models.Conversation) (*models.UnreadInfo, error) {
	if err := s.access.Require(ctx, userID, conv); err != nil {
		return nil, err
	}

	watermarks, err := s.loadWatermarks(ctx, userID)
	if err != nil {
		return nil, err
	}

	info, err := s.countFor(ctx, userID, conv, watermarks)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// MarkRead, conversation'ın watermark'ını şimdiye çeker — sayaç sıfırlanır.
// Conversation'ı açan client bunu çağırır; sonraki Counts çağrısı 0 döner
// (yeni mesaj gelmediği sürece).
func (s *UnreadService) MarkRead(ctx context.Context, userID string, conv models.Conversation) error {
	if err := s.access.Require(ctx, userID, conv); err != nil {
		return err
	}

	watermarks, err := s.loadWatermarks(ctx, userID)
	if err != nil {
		return err
	}

	watermarks[conv.Scope()] = time.Now().UTC().Format(time.RFC3339)
	return s.saveWatermarks(ctx, userID, watermarks)
}

func (s *UnreadService) countFor(ctx context.Context, userID string, conv models.Conversation, watermarks map[string]string) (models.UnreadInfo, error) {
	var since *time.Time
	if raw, ok := watermarks[conv.Scope()]; ok {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			// Bozuk watermark: yok sayılır, her şey okunmamış görünür —
			// yanlış "0 unread" göstermekten iyidir
			log.Printf("[unread] invalid watermark for %s %s: %v", userID, conv.Scope(), err)
		} else {
			since = &parsed
		}
	}

	count, err := s.messages.CountSince(ctx, conv, userID, since)
	if err != nil {
		return models.UnreadInfo{}, err
	}

	return models.UnreadInfo{Scope: conv.Scope(), UnreadCount: count}, nil
}

func (s *UnreadService) loadWatermarks(ctx context.Context, userID string) (map[string]string, error) {
	raw, err := s.store.Get(ctx, watermarkKey(userID))
	if errors.Is(err, kvstore.ErrNotFound) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, err
	}

	watermarks := make(map[string]string)
	if err := json.Unmarshal([]byte(raw), &watermarks); err != nil {
		// Bozuk kayıt baştan başlatılır — watermark kaybı en fazla
		// sayaçların bir süre yüksek görünmesine yol açar
		log.Printf("[unread] corrupt watermark map for %s, resetting: %v", userID, err)
		return make(map[string]string), nil
	}

	return watermarks, nil
}

func (s *UnreadService) saveWatermarks(ctx context.Context, userID string, watermarks map[string]string) error {
	raw, err := json.Marshal(watermarks)
	if err != nil {
		return fmt.Errorf("marshal watermarks: %w", err)
	}
	return s.store.Set(ctx, watermarkKey(userID), string(raw))
}
