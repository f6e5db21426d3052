// Package models — Group domain modeli.
//
// Group, kalıcı çok üyeli bir sohbet alanıdır (kanal benzeri).
// Üyelik group_members tablosunda tutulur — bir kullanıcı birden fazla
// grupta olabilir.
package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Group, bir grubu temsil eder.
// DB'deki "groups" tablosunun Go karşılığıdır.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupMember, bir grup üyeliğini kullanıcı bilgisiyle birlikte taşır.
// JOIN sonucu — API response'unda üye listesi için kullanılır.
type GroupMember struct {
	GroupID     string    `json:"group_id"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
	JoinedAt    time.Time `json:"joined_at"`
}

// CreateGroupRequest, yeni grup oluşturma isteği.
type CreateGroupRequest struct {
	Name string `json:"name"`
}

// Validate, CreateGroupRequest kontrolü.
func (r *CreateGroupRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	nameLen := utf8.RuneCountInString(r.Name)
	if nameLen < 1 {
		return fmt.Errorf("group name is required")
	}
	if nameLen > 64 {
		return fmt.Errorf("group name must be at most 64 characters")
	}
	return nil
}
