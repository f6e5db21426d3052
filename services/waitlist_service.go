package services

import (
	"context"
	"fmt"
	"log"

	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/pkg"
	"github.com/eraydn/odak/repository"
)

// WaitlistService, lansman öncesi bekleme listesi iş mantığı.
type WaitlistService struct {
	waitlist repository.WaitlistRepository
}

func NewWaitlistService(waitlist repository.WaitlistRepository) *WaitlistService {
	return &WaitlistService{waitlist: waitlist}
}

// Join, email'i bekleme listesine ekler.
// Aynı email'in tekrar eklenmesi hata değildir — yanıt her iki durumda da
// aynıdır, listede olup olmadığı dışarıdan anlaşılamaz.
func (s *WaitlistService) Join(ctx context.Context, req *models.JoinWaitlistRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	created, err := s.waitlist.Add(ctx, req.Email)
	if err != nil {
		return err
	}

	if created {
		log.Printf("[waitlist] new signup: %s", req.Email)
	}
	return nil
}

// Count, listedeki toplam kayıt sayısını döner (landing page sayacı).
func (s *WaitlistService) Count(ctx context.Context) (int, error) {
	return s.waitlist.Count(ctx)
}
