// Package main — Repository katmanı başlatma.
//
// initRepositories, tüm repository implementasyonlarını oluşturur.
// Her repository bir SQL.DB bağlantısı alır ve interface döner.
// main.go'daki wire-up'ı modülerleştirmek için bu dosyaya taşındı.
package main

import (
	"database/sql"

	"github.com/eraydn/odak/repository"
)

// Repositories, tüm repository instance'larını tutan container struct.
//
// Neden struct? Ayrı ayrı değişkenler yerine tek struct kullanmak fonksiyon
// imzalarını temiz tutar ve yeni repository eklendiğinde sadece struct +
// initRepositories güncellenir.
type Repositories struct {
	User       repository.UserRepository
	Session    repository.SessionRepository
	Group      repository.GroupRepository
	Thread     repository.ThreadRepository
	Message    repository.MessageRepository
	Reaction   repository.ReactionRepository
	Receipt    repository.ReceiptRepository
	Invitation repository.InvitationRepository
	Waitlist   repository.WaitlistRepository
}

// initRepositories, tüm repository'leri DB bağlantısı ile oluşturur.
func initRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		User:       repository.NewSQLiteUserRepo(db),
		Session:    repository.NewSQLiteSessionRepo(db),
		Group:      repository.NewSQLiteGroupRepo(db),
		Thread:     repository.NewSQLiteThreadRepo(db),
		Message:    repository.NewSQLiteMessageRepo(db),
		Reaction:   repository.NewSQLiteReactionRepo(db),
		Receipt:    repository.NewSQLiteReceiptRepo(db),
		Invitation: repository.NewSQLiteInvitationRepo(db),
		Waitlist:   repository.NewSQLiteWaitlistRepo(db),
	}
}
