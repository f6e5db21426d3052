package repository

import (
	"context"

	"github.com/eraydn/odak/models"
)

// InvitationRepository, grup davetleri için interface.
//
// UpdateStatus: Davet yaşam döngüsü geçişleri (pending → accepted,
// pending → expired). Süresi dolmuş bir davet kabul edilmeye
// çalışıldığında service katmanı önce expired'a çeker, sonra 410 döner —
// satır bir daha pending'e dönmez.
type InvitationRepository interface {
	Create(ctx context.Context, invitation *models.Invitation) error
	GetByToken(ctx context.Context, token string) (*models.Invitation, error)
	UpdateStatus(ctx context.Context, id string, status models.InvitationStatus) error
	ListByGroup(ctx context.Context, groupID string) ([]models.Invitation, error)
}
