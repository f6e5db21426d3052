package pkg

import (
	"encoding/json"
	"errors"
	"net/http"
)

// APIResponse, tüm HTTP endpoint'lerinin ortak zarfı. Client tarafı
// success alanına bakarak data mı error mı okuyacağına karar verir;
// WebSocket event'leri bu zarfı kullanmaz (bkz. ws/event.go).
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		// Status zaten yazıldı — elden gelen tek şey plain-text fallback
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// JSON, başarı yanıtı gönderir.
func JSON(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, APIResponse{Success: true, Data: data})
}

// Error, domain error'ını HTTP status'a eşleyip hata yanıtı gönderir.
// Service katmanı fmt.Errorf("%w: ...", pkg.ErrX) ile sarar; burada
// errors.Is ile chain'in tamamına bakılır.
func Error(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToStatus(err), APIResponse{Success: false, Error: err.Error()})
}

// ErrorWithMessage, status'u caller'ın belirlediği hata yanıtı gönderir.
// Rate limit (429) gibi domain error'ı olmayan durumlar için.
func ErrorWithMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIResponse{Success: false, Error: message})
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrGone):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
