// Package main — WebSocket Hub wire-up.
//
// Hub ws paketinde yaşıyor ama subscribe yetki kontrolü ve kullanıcı adı
// çözümleme service/repo katmanına ait. Hub'ın service'lere bağımlı
// olmasını istemiyoruz (Dependency Inversion) — bağlantı noktası burası.
package main

import (
	"context"

	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/repository"
	"github.com/eraydn/odak/services"
	"github.com/eraydn/odak/ws"
)

// userNameResolver, EventFeed'in NameResolver ihtiyacını user repository
// üzerinden karşılar. Görünen isim varsa onu, yoksa username'i döner.
type userNameResolver struct {
	users repository.UserRepository
}

func (r *userNameResolver) ResolveName(ctx context.Context, userID string) (string, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Name(), nil
}

// wireHub, Hub'ın subscribe authorizer'ını access checker'a bağlar.
//
// Authorizer client'ın read loop goroutine'inde çalışır ve DB'ye gider —
// Hub lock'ları alınmadan ÖNCE çağrılır, bu yüzden bloklama sorun değil.
// Hata durumunda güvenli taraf seçilir: erişim yok.
func wireHub(hub *ws.Hub, access *services.AccessChecker) {
	hub.SetAuthorizer(func(userID string, conv models.Conversation) bool {
		ok, err := access.CanAccess(context.Background(), userID, conv)
		if err != nil {
			return false
		}
		return ok
	})
}
