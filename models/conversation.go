// Package models — Conversation scope.
//
// Sistemdeki her mesajlaşma alanı ya bir grup ya bir side thread'dir.
// Realtime kanal isimleri, watermark key'leri ve repository tablo seçimi
// hep aynı scope string'ini kullanır: "group:<id>" veya "thread:<id>".
package models

import (
	"fmt"
	"strings"
)

// ConversationType, bir conversation'ın türü.
type ConversationType string

const (
	ConversationGroup  ConversationType = "group"
	ConversationThread ConversationType = "thread"
)

// Conversation, bir grup veya side thread'e tip + ID ile referans verir.
//
// Neden ayrı bir tip?
// Mesaj/reaction/receipt tabloları grup ve thread için ayrıdır
// (messages vs side_thread_messages). String scope yerine typed struct
// taşımak, yanlış tabloya yazma hatasını derleme zamanına çeker.
type Conversation struct {
	Type ConversationType `json:"type"`
	ID   string           `json:"id"`
}

// Scope, conversation'ın kanonik string hali: "group:abc" / "thread:xyz".
// Realtime kanal isimleri (presence:<scope>, typing:<scope>) ve
// unread watermark map key'leri bu formatı kullanır.
func (c Conversation) Scope() string {
	return string(c.Type) + ":" + c.ID
}

// Valid, conversation'ın tip ve ID taşıyıp taşımadığını kontrol eder.
func (c Conversation) Valid() bool {
	return (c.Type == ConversationGroup || c.Type == ConversationThread) && c.ID != ""
}

// ParseScope, "group:abc" formatındaki scope string'ini Conversation'a çevirir.
func ParseScope(scope string) (Conversation, error) {
	typ, id, ok := strings.Cut(scope, ":")
	if !ok || id == "" {
		return Conversation{}, fmt.Errorf("invalid conversation scope %q", scope)
	}

	switch ConversationType(typ) {
	case ConversationGroup, ConversationThread:
		return Conversation{Type: ConversationType(typ), ID: id}, nil
	default:
		return Conversation{}, fmt.Errorf("unknown conversation type %q", typ)
	}
}
