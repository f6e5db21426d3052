package repository

import (
	"context"

	"github.com/eraydn/odak/models"
)

// GroupRepository, grup ve grup üyeliği veritabanı işlemleri için interface.
//
// IsMember: Authorization kontrolünün temeli — bir kullanıcı sadece üyesi
// olduğu grupların mesajlarını görebilir ve scope'larına abone olabilir.
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id string) (*models.Group, error)
	ListByUser(ctx context.Context, userID string) ([]models.Group, error)
	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	ListMembers(ctx context.Context, groupID string) ([]models.GroupMember, error)
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}
