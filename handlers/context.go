// Package handlers — HTTP endpoint'leri.
//
// Thin handler pattern: Handler'lar sadece HTTP request parse + response
// yazımı yapar. Tüm iş mantığı service katmanındadır. Bir handler'da
// if/else görüyorsanız muhtemelen yanlış katmandadır.
package handlers

import (
	"net/http"

	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/pkg"
)

// contextKey, context.WithValue için özel tip.
// string yerine özel tip kullanmak başka paketlerin key'leriyle çakışmayı önler.
type contextKey string

// UserContextKey, auth middleware'ın context'e koyduğu kullanıcının key'i.
const UserContextKey contextKey = "user"

// currentUser, context'teki authenticated kullanıcıyı döner.
// Auth middleware'dan geçmemiş bir route'ta çağrılırsa ok=false döner.
func currentUser(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	return user, ok
}

// parseScope, path'teki {scope} parametresini Conversation'a çevirir.
// Geçersiz scope'ta hata yanıtını kendisi yazar ve ok=false döner.
func parseScope(w http.ResponseWriter, r *http.Request) (models.Conversation, bool) {
	conv, err := models.ParseScope(r.PathValue("scope"))
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid conversation scope")
		return models.Conversation{}, false
	}
	return conv, true
}
