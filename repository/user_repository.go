package repository

import (
	"context"

	"github.com/eraydn/odak/models"
)

// UserRepository, kullanıcı veritabanı işlemleri için interface.
//
// GetByIDs: Birden fazla kullanıcıyı batch olarak yükler (N+1 önleme).
// UpdateProfile: nil olmayan alanları günceller (partial update).
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	UpdateProfile(ctx context.Context, id string, req *models.UpdateProfileRequest) error
}
