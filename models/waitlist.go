package models

import (
	"fmt"
	"strings"
	"time"
)

// WaitlistEntry, lansman öncesi bekleme listesine yazılan bir email.
type WaitlistEntry struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// JoinWaitlistRequest, bekleme listesine katılma isteği.
type JoinWaitlistRequest struct {
	Email string `json:"email"`
}

// Validate, JoinWaitlistRequest kontrolü.
func (r *JoinWaitlistRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	return nil
}
