package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Message, bir chat mesajını temsil eder.
// Grup mesajları "messages", thread mesajları "side_thread_messages"
// tablosunda tutulur — ikisi de aynı Go struct'ına map edilir,
// Conversation alanı hangi tabloya ait olduğunu söyler.
//
// Author alanı JOIN sorguları ile doldurulur — veritabanında ayrı tablodadır
// ama API response'unda birlikte döner. Bu sayede frontend tek istekle
// mesaj + yazar bilgisini alır.
type Message struct {
	ID           string         `json:"id"`
	Conversation Conversation   `json:"conversation"`
	UserID       string         `json:"user_id"`
	Content      *string        `json:"content"` // Nullable — sadece dosya içeren mesajlarda nil olabilir
	IsAI         bool           `json:"is_ai"`   // AI tarafından üretilen mesajlar (özet, asistan yanıtı)
	Attachment   *Attachment    `json:"attachment,omitempty"`
	ReplyToID    *string        `json:"reply_to_id"`
	Pinned       bool           `json:"pinned"`
	EditedAt     *time.Time     `json:"edited_at"` // Düzenlendiyse zaman damgası
	CreatedAt    time.Time      `json:"created_at"`
	Author       *User          `json:"author,omitempty"`
	Reactions    []ReactionGroup `json:"reactions"`
	ReadBy       []ReadReceipt  `json:"read_by"`
}

// Attachment, bir mesaja inline eklenmiş tek dosyayı temsil eder.
type Attachment struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"` // Byte cinsinden
}

// MessagePage, cursor-based pagination (sayfalama) sonucu.
//
// Cursor-based pagination nedir?
// Offset-based ("LIMIT 50 OFFSET 100") yerine "bu ID'den önceki 50 mesajı getir" kullanır.
// Avantajı: Yeni mesaj eklendiğinde sayfa kayması olmaz.
type MessagePage struct {
	Messages []Message `json:"messages"`
	HasMore  bool      `json:"has_more"` // Daha eski mesajlar var mı?
}

// CreateMessageRequest, yeni mesaj gönderme isteği.
type CreateMessageRequest struct {
	Content    string      `json:"content"`
	Attachment *Attachment `json:"attachment"`
	ReplyToID  *string     `json:"reply_to_id"`
}

// Validate, CreateMessageRequest'in geçerli olup olmadığını kontrol eder.
// İçerik 1-4000 karakter arası olmalı; attachment varsa content boş olabilir.
func (r *CreateMessageRequest) Validate() error {
	r.Content = strings.TrimSpace(r.Content)
	contentLen := utf8.RuneCountInString(r.Content)
	if contentLen < 1 && r.Attachment == nil {
		return fmt.Errorf("message content is required")
	}
	if contentLen > 4000 {
		return fmt.Errorf("message content must be at most 4000 characters")
	}
	if r.Attachment != nil && r.Attachment.URL == "" {
		return fmt.Errorf("attachment url is required")
	}
	return nil
}

// UpdateMessageRequest, mesaj düzenleme isteği.
type UpdateMessageRequest struct {
	Content string `json:"content"`
}

// Validate, UpdateMessageRequest'in geçerli olup olmadığını kontrol eder.
func (r *UpdateMessageRequest) Validate() error {
	r.Content = strings.TrimSpace(r.Content)
	contentLen := utf8.RuneCountInString(r.Content)
	if contentLen < 1 {
		return fmt.Errorf("message content is required")
	}
	if contentLen > 4000 {
		return fmt.Errorf("message content must be at most 4000 characters")
	}
	return nil
}
