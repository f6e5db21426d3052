package services

import (
	"context"
	"fmt"

	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/pkg"
	"github.com/eraydn/odak/repository"
)

// AccessChecker, conversation erişim kuralının tek sahibi.
//
// Kural:
//   - group scope → kullanıcı grubun üyesi olmalı
//   - thread scope → kullanıcı thread'in KATILIMCISI olmalı; grup üyeliği
//     yetmez, side thread'ler gruba rağmen özeldir
//
// Mesaj okuma/yazma, reaction, receipt, realtime abonelik — hepsi bu
// kontrolden geçer. Hub'ın SubscribeAuthorizer callback'i de buraya bağlanır.
type AccessChecker struct {
	groups  repository.GroupRepository
	threads repository.ThreadRepository
}

func NewAccessChecker(groups repository.GroupRepository, threads repository.ThreadRepository) *AccessChecker {
	return &AccessChecker{groups: groups, threads: threads}
}

// CanAccess, kullanıcının conversation'a erişimi olup olmadığını döner.
func (a *AccessChecker) CanAccess(ctx context.Context, userID string, conv models.Conversation) (bool, error) {
	switch conv.Type {
	case models.ConversationGroup:
		return a.groups.IsMember(ctx, conv.ID, userID)
	case models.ConversationThread:
		return a.threads.IsParticipant(ctx, conv.ID, userID)
	default:
		return false, fmt.Errorf("unknown conversation type %q", conv.Type)
	}
}

// Require, erişim yoksa ErrForbidden döner — service metodlarının
// başında tek satırlık guard olarak kullanılır.
func (a *AccessChecker) Require(ctx context.Context, userID string, conv models.Conversation) error {
	ok, err := a.CanAccess(ctx, userID, conv)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no access to %s", pkg.ErrForbidden, conv.Scope())
	}
	return nil
}
