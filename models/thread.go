// Package models — SideThread domain modeli.
//
// Side thread, bir gruba bağlı özel alt sohbettir: sadece açıkça eklenen
// katılımcılar görebilir. İnsanlar burada beyin fırtınası yapar, isterse
// sonucu AI özetiyle ana gruba aktarır.
package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// SideThread, bir side thread'i temsil eder.
// DB'deki "side_threads" tablosunun Go karşılığıdır.
type SideThread struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// ThreadParticipant, bir thread katılımcısını kullanıcı bilgisiyle taşır.
type ThreadParticipant struct {
	ThreadID    string    `json:"thread_id"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName *string   `json:"display_name"`
	JoinedAt    time.Time `json:"joined_at"`
}

// CreateThreadRequest, yeni side thread oluşturma isteği.
// ParticipantIDs: thread'e başlangıçta eklenecek kullanıcılar.
// Oluşturan kullanıcı listede olmasa bile otomatik eklenir.
type CreateThreadRequest struct {
	Name           string   `json:"name"`
	ParticipantIDs []string `json:"participant_ids"`
}

// Validate, CreateThreadRequest kontrolü.
func (r *CreateThreadRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	nameLen := utf8.RuneCountInString(r.Name)
	if nameLen < 1 {
		return fmt.Errorf("thread name is required")
	}
	if nameLen > 64 {
		return fmt.Errorf("thread name must be at most 64 characters")
	}
	return nil
}

// SummarizeResult, thread özetleme işleminin sonucu.
// Message: ana gruba gönderilen özet mesajı.
type SummarizeResult struct {
	Message *Message `json:"message"`
}
