package models

import "time"

// Reaction, bir kullanıcının bir mesaja verdiği tek bir emoji tepkisini temsil eder.
//
// UNIQUE(message_id, user_id, emoji) constraint'i sayesinde
// bir kullanıcı aynı mesaja aynı emojiyi sadece bir kez ekleyebilir.
type Reaction struct {
	ID        string    `json:"id"`
	MessageID string    `json:"message_id"`
	UserID    string    `json:"user_id"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}

// ReactionGroup, bir mesajdaki aynı emojinin toplu görünümü.
//
// Örnek: 👍 3 [user1, user2, user3] hasReacted=true
// HasReacted viewer'a görelidir: aynı mesaj için user1'e true,
// tepki vermemiş user4'e false döner. Bu yüzden gruplama sorgusu
// değil, service katmanı viewer ID'si ile doldurur.
type ReactionGroup struct {
	Emoji      string   `json:"emoji"`
	Count      int      `json:"count"`
	Users      []string `json:"users"`
	HasReacted bool     `json:"has_reacted"`
}
