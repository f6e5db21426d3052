package repository

import (
	"context"
	"time"
)

// Session, bir refresh token oturumunu temsil eder.
// Token'ın kendisi değil SHA-256 hash'i saklanır — DB sızarsa bile
// token'lar kullanılamaz.
type Session struct {
	ID               string
	UserID           string
	RefreshTokenHash string
	ExpiresAt        time.Time
	CreatedAt        time.Time
}

// SessionRepository, refresh token oturumları için interface.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
