// Package repository — veritabanı erişim katmanı.
//
// Repository pattern: Her domain kavramı için bir interface + SQLite
// implementasyonu çifti. Service katmanı sadece interface'leri görür;
// testlerde in-memory fake'ler, üretimde SQLite implementasyonları bağlanır.
package repository

import "github.com/eraydn/odak/models"

// convTables, bir conversation tipinin kullandığı tablo üçlüsü.
//
// Grup ve side thread mesajları kasıtlı olarak ayrı tablolarda yaşar —
// thread'ler özel alanlardır, sorguları hiçbir koşulda grup mesajlarına
// karışmamalıdır. Tablo seçimi tek noktadan (buradan) yapılır; yanlış
// tabloya yazmak için bu dosyayı bozmak gerekir.
type convTables struct {
	messages  string
	reactions string
	reads     string
	parentCol string // messages tablosundaki parent FK kolonu
}

var groupTables = convTables{
	messages:  "messages",
	reactions: "message_reactions",
	reads:     "message_reads",
	parentCol: "group_id",
}

var threadTables = convTables{
	messages:  "side_thread_messages",
	reactions: "side_thread_message_reactions",
	reads:     "side_thread_message_reads",
	parentCol: "thread_id",
}

// tablesFor, conversation tipine göre tablo üçlüsünü seçer.
func tablesFor(conv models.Conversation) convTables {
	if conv.Type == models.ConversationThread {
		return threadTables
	}
	return groupTables
}
