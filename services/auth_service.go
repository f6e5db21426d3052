// Package services — business logic katmanı.
//
// Service'ler repository interface'lerini kullanır, domain kurallarını
// uygular ve gerektiğinde WebSocket event'leri broadcast eder.
// Handler'lar HTTP detaylarını, repository'ler SQL detaylarını bilir;
// ikisinin arasındaki her kural buradadır.
package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/pkg"
	"github.com/eraydn/odak/repository"
)

// AuthService, kimlik doğrulama iş mantığı.
//
// Access token: Kısa ömürlü JWT (15dk) — her istekte doğrulanır, DB'ye gidilmez.
// Refresh token: Uzun ömürlü rastgele string (7 gün) — DB'de SHA-256 hash'i
// saklanır, access token yenilemek için kullanılır.
type AuthService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository

	jwtSecret          []byte
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	jwtSecret string,
	accessTokenExpiry, refreshTokenExpiry time.Duration,
) *AuthService {
	return &AuthService{
		users:              users,
		sessions:           sessions,
		jwtSecret:          []byte(jwtSecret),
		accessTokenExpiry:  accessTokenExpiry,
		refreshTokenExpiry: refreshTokenExpiry,
	}
}

// Register, yeni kullanıcı kaydı yapar ve token çifti döner.
func (s *AuthService) Register(ctx context.Context, req *models.CreateUserRequest) (*models.User, *models.TokenPair, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	// bcrypt: Şifre hash'leme için endüstri standardı.
	// Cost 12 — hash başına ~250ms, brute-force'u pratikte anlamsızlaştırır.
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
	}
	if req.DisplayName != "" {
		user.DisplayName = &req.DisplayName
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	log.Printf("[auth] user registered: %s (%s)", user.Username, user.ID)
	return user, tokens, nil
}

// Login, email + şifre ile giriş yapar.
//
// "invalid credentials" tek bir hata olarak döner — email'in kayıtlı olup
// olmadığı yanıttan anlaşılamaz (user enumeration engeli).
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, *models.TokenPair, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid credentials", pkg.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, fmt.Errorf("%w: invalid credentials", pkg.ErrUnauthorized)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	log.Printf("[auth] user logged in: %s", user.Username)
	return user, tokens, nil
}

// Refresh, refresh token karşılığında yeni bir token çifti üretir.
// Eski oturum silinir — refresh token tek kullanımlıktır (rotation).
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	session, err := s.sessions.GetByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", pkg.ErrUnauthorized)
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, session.ID)
		return nil, fmt.Errorf("%w: refresh token expired", pkg.ErrUnauthorized)
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", pkg.ErrUnauthorized)
	}

	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout, refresh token'ın oturumunu sonlandırır.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.sessions.GetByTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		// Token zaten geçersiz — logout amacına ulaşmıştır
		return nil
	}
	return s.sessions.Delete(ctx, session.ID)
}

// GetProfile, kullanıcının kendi profilini döner.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile, display name / avatar günceller ve güncel profili döner.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.User, error) {
	if req.DisplayName != nil && len(*req.DisplayName) > 64 {
		return nil, fmt.Errorf("%w: display name too long", pkg.ErrBadRequest)
	}

	if err := s.users.UpdateProfile(ctx, userID, req); err != nil {
		return nil, err
	}

	return s.users.GetByID(ctx, userID)
}

// ValidateAccessToken, JWT'yi doğrular ve claims döner.
// Hem HTTP auth middleware hem WebSocket handshake bunu kullanır.
func (s *AuthService) ValidateAccessToken(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		// Algoritma kontrolü: alg=none ve RS256→HS256 downgrade saldırılarını keser
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
	}

	return claims, nil
}

// CleanupExpiredSessions, süresi dolmuş oturumları temizler.
// main.go'daki periyodik bakım goroutine'i çağırır.
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) {
	deleted, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		log.Printf("[auth] session cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[auth] cleaned up %d expired sessions", deleted)
	}
}

// issueTokens, access JWT + refresh token üretir ve oturumu kaydeder.
func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	now := time.Now()
	claims := &models.TokenClaims{
		UserID:   user.ID,
		Username: user.Name(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenExpiry)),
			Subject:   user.ID,
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}

	session := &repository.Session{
		UserID:           user.ID,
		RefreshTokenHash: hashToken(refreshToken),
		ExpiresAt:        now.Add(s.refreshTokenExpiry),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// generateRefreshToken, 32 byte kriptografik rastgele token üretir.
func generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// hashToken, refresh token'ın DB'de saklanan SHA-256 hash'ini üretir.
// DB sızsa bile ham token'lar ele geçmez.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
