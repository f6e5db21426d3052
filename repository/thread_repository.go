package repository

import (
	"context"

	"github.com/eraydn/odak/models"
)

// ThreadRepository, side thread veritabanı işlemleri için interface.
//
// ListByGroupForUser: Bir gruptaki thread'lerden SADECE kullanıcının
// katılımcısı olduklarını döner. Side thread'ler özel alanlardır —
// katılımcı olmayan bir üye thread'in varlığını bile görmez.
//
// IsParticipant: Thread scope yetki kontrolünün temeli (mesaj okuma,
// realtime abonelik, özetleme hep buradan geçer).
type ThreadRepository interface {
	Create(ctx context.Context, thread *models.SideThread) error
	GetByID(ctx context.Context, id string) (*models.SideThread, error)
	ListByGroupForUser(ctx context.Context, groupID, userID string) ([]models.SideThread, error)
	AddParticipant(ctx context.Context, threadID, userID string) error
	RemoveParticipant(ctx context.Context, threadID, userID string) error
	ListParticipants(ctx context.Context, threadID string) ([]models.ThreadParticipant, error)
	IsParticipant(ctx context.Context, threadID, userID string) (bool, error)
}
