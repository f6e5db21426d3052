package models

import "time"

// ReadReceipt, bir kullanıcının bir mesajı okuduğunu kaydeder.
// (message_id, user_id) başına en fazla bir satır vardır; insert
// idempotent'tir, satır asla güncellenmez veya silinmez.
type ReadReceipt struct {
	MessageID string    `json:"message_id"`
	UserID    string    `json:"user_id"`
	ReadAt    time.Time `json:"read_at"`
}

// UnreadInfo, bir conversation'ın okunmamış mesaj bilgisini taşır.
// Frontend'de sidebar badge'i için kullanılır.
type UnreadInfo struct {
	Scope       string `json:"scope"` // "group:<id>" veya "thread:<id>"
	UnreadCount int    `json:"unread_count"`
}
