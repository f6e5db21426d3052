package repository

import (
	"context"

	"github.com/eraydn/odak/models"
)

// WaitlistRepository, lansman öncesi bekleme listesi için interface.
// Add idempotent'tir — aynı email ikinci kez eklenirse hata dönmez,
// created=false döner.
type WaitlistRepository interface {
	Add(ctx context.Context, email string) (created bool, err error)
	List(ctx context.Context) ([]models.WaitlistEntry, error)
	Count(ctx context.Context) (int, error)
}
