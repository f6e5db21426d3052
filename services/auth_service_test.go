package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/pkg"
)

func newAuthService(env *svcEnv) *AuthService {
	return NewAuthService(env.users, env.sessions, "test-secret", 15*time.Minute, 7*24*time.Hour)
}

func registerUser(t *testing.T, svc *AuthService, email, username string) (*models.User, *models.TokenPair) {
	t.Helper()
	user, tokens, err := svc.Register(context.Background(), &models.CreateUserRequest{
		Email:    email,
		Username: username,
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return user, tokens
}

func TestAuthRegister(t *testing.T) {
	env := newSvcEnv(t)
	svc := newAuthService(env)

	user, tokens := registerUser(t, svc, "deniz@test.dev", "deniz")

	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	// Access token imzalı ve claims'i dolu olmalı
	claims, err := svc.ValidateAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "deniz", claims.Username)
}

func TestAuthRegisterValidation(t *testing.T) {
	env := newSvcEnv(t)
	svc := newAuthService(env)
	ctx := context.Background()

	cases := []models.CreateUserRequest{
		{Email: "no-at-sign", Username: "deniz", Password: "correct-horse"},
		{Email: "deniz@test.dev", Username: "ab", Password: "correct-horse"},       // username çok kısa
		{Email: "deniz@test.dev", Username: "deniz!", Password: "correct-horse"},   // geçersiz karakter
		{Email: "deniz@test.dev", Username: "deniz", Password: "short"},            // şifre çok kısa
	}
	for _, req := range cases {
		_, _, err := svc.Register(ctx, &req)
		assert.ErrorIs(t, err, pkg.ErrBadRequest)
	}
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	env := newSvcEnv(t)
	svc := newAuthService(env)

	// alice fixture'da zaten var
	_, _, err := svc.Register(context.Background(), &models.CreateUserRequest{
		Email:    "alice@test.dev",
		Username: "alice2",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, pkg.ErrAlreadyExists)
}

func TestAuthLogin(t *testing.T) {
	env := newSvcEnv(t)
	svc := newAuthService(env)
	ctx := context.Background()

	registered, _ := registerUser(t, svc, "deniz@test.dev", "deniz")

	user, tokens, err := svc.Login(ctx, &models.LoginRequest{Email: "Deniz@Test.dev", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	env := newSvcEnv(t)
	svc := newAuthService(env)
	ctx := context.Background()

	registerUser(t, svc, "deniz@test.dev", "deniz")

	// Yanlış şifre ve bilinmeyen email AYNI hatayı döner —
	// yanıttan email'in kayıtlı olup olmadığı anlaşılamaz
	_, _, err := svc.Login(ctx, &models.LoginRequest{Email: "deniz@test.dev", Password: "wrong-password"})
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)

	_, _, err = svc.Login(ctx, &models.LoginRequest{Email: "nobody@test.dev", Password: "correct-horse"})
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
}

func TestAuthRefreshRotation(t *testing.T) {
	env := newSvcEnv(t)
	svc := newAuthService(env)
	ctx := context.Background()

	_, tokens := registerUser(t, svc, "deniz@test.dev", "deniz")

	fresh, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
	assert.NotEqual(t, tokens.RefreshToken, fresh.RefreshToken)

	// Rotation: eski refresh token tek kullanımlıktır
	_, err = svc.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)

	// Yenisi çalışmaya devam eder
	_, err = svc.Refresh(ctx, fresh.RefreshToken)
	require.NoError(t, err)
}

func TestAuthLogout(t *testing.T) {
	env := newSvcEnv(t)
	svc := newAuthService(env)
	ctx := context.Background()

	_, tokens := registerUser(t, svc, "deniz@test.dev", "deniz")

	require.NoError(t, svc.Logout(ctx, tokens.RefreshToken))

	_, err := svc.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)

	// Zaten geçersiz token'la logout hata değildir — amaç gerçekleşmiştir
	assert.NoError(t, svc.Logout(ctx, "garbage"))
}

func TestAuthValidateAccessTokenRejectsTampering(t *testing.T) {
	env := newSvcEnv(t)
	svc := newAuthService(env)

	_, tokens := registerUser(t, svc, "deniz@test.dev", "deniz")

	_, err := svc.ValidateAccessToken(tokens.AccessToken + "x")
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)

	// Farklı secret ile imzalanmış token da reddedilir
	other := NewAuthService(env.users, env.sessions, "other-secret", 15*time.Minute, 7*24*time.Hour)
	_, otherTokens := registerUser(t, other, "ela@test.dev", "ela")
	_, err = svc.ValidateAccessToken(otherTokens.AccessToken)
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
}

func TestAuthUpdateProfile(t *testing.T) {
	env := newSvcEnv(t)
	svc := newAuthService(env)
	ctx := context.Background()

	user, _ := registerUser(t, svc, "deniz@test.dev", "deniz")

	display := "Deniz K."
	updated, err := svc.UpdateProfile(ctx, user.ID, &models.UpdateProfileRequest{DisplayName: &display})
	require.NoError(t, err)
	require.NotNil(t, updated.DisplayName)
	assert.Equal(t, "Deniz K.", *updated.DisplayName)
	assert.Equal(t, "Deniz K.", updated.Name())

	// Nil alanlar dokunulmaz kalır (partial update)
	avatar := "https://cdn.test.dev/deniz.png"
	updated, err = svc.UpdateProfile(ctx, user.ID, &models.UpdateProfileRequest{AvatarURL: &avatar})
	require.NoError(t, err)
	require.NotNil(t, updated.DisplayName)
	assert.Equal(t, "Deniz K.", *updated.DisplayName)
	require.NotNil(t, updated.AvatarURL)
	assert.Equal(t, "https://cdn.test.dev/deniz.png", *updated.AvatarURL)
}
