// Package models — Invitation domain modeli.
//
// Invitation, bir kullanıcıyı email ile bir gruba davet eder.
// Token benzersizdir ve davet linkine gömülür. Her davetin son kullanma
// tarihi vardır; süresi dolmuş bir davet kabul edilmeye çalışıldığında
// status 'expired' olarak işaretlenir ve 410 döner.
package models

import (
	"fmt"
	"strings"
	"time"
)

// InvitationStatus, davetin yaşam döngüsündeki durumu.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationExpired  InvitationStatus = "expired"
)

// Invitation, bir grup davetini temsil eder.
// DB'deki "invitations" tablosunun Go karşılığıdır.
type Invitation struct {
	ID        string           `json:"id"`
	GroupID   string           `json:"group_id"`
	Email     string           `json:"email"`
	Token     string           `json:"token"`
	Status    InvitationStatus `json:"status"`
	InvitedBy string           `json:"invited_by"`
	ExpiresAt time.Time        `json:"expires_at"`
	CreatedAt time.Time        `json:"created_at"`
}

// Expired, davetin verilen ana göre süresinin dolup dolmadığını döner.
func (i *Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// CreateInvitationRequest, yeni davet oluşturma isteği.
type CreateInvitationRequest struct {
	Email string `json:"email"`
}

// Validate, CreateInvitationRequest kontrolü.
func (r *CreateInvitationRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	return nil
}

// AcceptInvitationRequest, davet kabul isteği.
type AcceptInvitationRequest struct {
	InviteToken string `json:"inviteToken"`
}

// AcceptInvitationResult, başarılı davet kabulünün sonucu.
// Frontend bu bilgiyle kullanıcıyı doğrudan gruba yönlendirir.
type AcceptInvitationResult struct {
	GroupID   string `json:"group_id"`
	GroupName string `json:"group_name"`
}
