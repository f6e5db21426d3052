// Package main — Service katmanı başlatma.
//
// initServices, tüm service implementasyonlarını oluşturur.
// Her service, ihtiyaç duyduğu repository interface'lerini ve diğer
// dependency'leri constructor injection ile alır.
package main

import (
	"database/sql"
	"log"
	"time"

	"github.com/eraydn/odak/ai"
	"github.com/eraydn/odak/config"
	"github.com/eraydn/odak/pkg/email"
	"github.com/eraydn/odak/pkg/kvstore"
	"github.com/eraydn/odak/pkg/ratelimit"
	"github.com/eraydn/odak/services"
	"github.com/eraydn/odak/ws"
)

// Services, tüm service instance'larını tutan container struct.
type Services struct {
	Auth       *services.AuthService
	Access     *services.AccessChecker
	Group      *services.GroupService
	Thread     *services.ThreadService
	Message    *services.MessageService
	Reaction   *services.ReactionService
	Receipt    *services.ReceiptService
	Unread     *services.UnreadService
	Invitation *services.InvitationService
	Waitlist   *services.WaitlistService
	AI         *services.AIService
}

// RateLimiters, tüm rate limiter instance'larını tutan container.
type RateLimiters struct {
	Login   *ratelimit.LoginRateLimiter
	Message *ratelimit.MessageRateLimiter
}

// initServices, tüm service'leri ve rate limiter'ları oluşturur.
//
// hub (EventPublisher + typing tracker) ve feed service'ler arası
// paylaşılan dependency'lerdir — main.go'da oluşturulup buraya gelir.
func initServices(db *sql.DB, repos *Repositories, hub *ws.Hub, feed *ws.EventFeed, cfg *config.Config) (*Services, *RateLimiters) {
	authService := services.NewAuthService(
		repos.User,
		repos.Session,
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*24*time.Hour,
	)

	access := services.NewAccessChecker(repos.Group, repos.Thread)

	// AI client hem thread özetleme (Summarizer) hem asistan chat'i
	// (ChatStreamer) olarak kullanılır — iki interface, tek implementasyon.
	aiClient := ai.NewClient(cfg.AI.ChatURL, cfg.AI.SummarizeURL, cfg.AI.APIKey)
	if cfg.AI.ChatURL == "" || cfg.AI.SummarizeURL == "" {
		log.Println("[init] AI endpoints not configured, summarize/chat will fail until set")
	}

	// Email gönderimi opsiyonel — API key yoksa davetler yine oluşur,
	// sadece email gitmez (development ortamı).
	sender := email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.FromAddress, cfg.Server.AppURL)

	// Unread watermark'ları ayrı tablolar yerine kv store'da JSON olarak
	// tutulur — kullanıcı başına tek satır, conversation başına tek key.
	unreadStore := kvstore.NewSQLite(db)

	svcs := &Services{
		Auth:       authService,
		Access:     access,
		Group:      services.NewGroupService(repos.Group, feed),
		Thread:     services.NewThreadService(repos.Thread, repos.Group, repos.Message, aiClient, feed, hub),
		Message:    services.NewMessageService(repos.Message, repos.Reaction, repos.Receipt, access, hub, hub.Typing()),
		Reaction:   services.NewReactionService(repos.Reaction, repos.Message, access, hub),
		Receipt:    services.NewReceiptService(repos.Receipt, repos.Message, access, hub),
		Unread:     services.NewUnreadService(unreadStore, repos.Message, repos.Group, repos.Thread, access),
		Invitation: services.NewInvitationService(repos.Invitation, repos.Group, repos.User, db, sender, feed),
		Waitlist:   services.NewWaitlistService(repos.Waitlist),
		AI:         services.NewAIService(aiClient, repos.Message, repos.Thread, access, hub, hub.Typing()),
	}

	limiters := &RateLimiters{
		// Login brute-force koruması: 5 deneme / 15 dakika, IP bazlı
		Login: ratelimit.NewLoginRateLimiter(5, 15*time.Minute),
		// Mesaj spam koruması: 10 mesaj / 10 saniye, aşınca 30sn cooldown
		Message: ratelimit.NewMessageRateLimiter(10, 10*time.Second, 30*time.Second),
	}

	return svcs, limiters
}
