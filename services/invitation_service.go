package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/eraydn/odak/database"
	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/pkg"
	"github.com/eraydn/odak/pkg/email"
	"github.com/eraydn/odak/repository"
	"github.com/eraydn/odak/ws"
)

// invitationTTL: Davetin geçerlilik süresi.
const invitationTTL = 7 * 24 * time.Hour

// InvitationService, grup daveti iş mantığı.
//
// Davet yaşam döngüsü:
//
//	pending → accepted (kabul edildi)
//	pending → expired  (süresi dolduktan SONRA ilk kabul denemesinde işaretlenir)
//
// Süresi dolmuş bir davetin kabulü 410 Gone döner ve satır kalıcı olarak
// expired'a çekilir — davet bir daha asla kabul edilemez.
type InvitationService struct {
	invitations repository.InvitationRepository
	groups      repository.GroupRepository
	users       repository.UserRepository
	db          *sql.DB
	sender      email.EmailSender
	feed        *ws.EventFeed
}

func NewInvitationService(
	invitations repository.InvitationRepository,
	groups repository.GroupRepository,
	users repository.UserRepository,
	db *sql.DB,
	sender email.EmailSender,
	feed *ws.EventFeed,
) *InvitationService {
	return &InvitationService{
		invitations: invitations,
		groups:      groups,
		users:       users,
		db:          db,
		sender:      sender,
		feed:        feed,
	}
}

// Create, yeni davet oluşturur ve alıcıya email gönderir.
//
// Email gönderimi best-effort'tur: Resend erişilemez olsa bile davet
// oluşur ve token API yanıtında döner — davet eden linki elle
// paylaşabilir. Gönderim arka planda, isteğin context'inden bağımsız yapılır.
func (s *InvitationService) Create(ctx context.Context, userID, groupID string, req *models.CreateInvitationRequest) (*models.Invitation, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	member, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("%w: not a member of this group", pkg.ErrForbidden)
	}

	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	invitation := &models.Invitation{
		GroupID:   groupID,
		Email:     req.Email,
		Token:     uuid.NewString(),
		Status:    models.InvitationPending,
		InvitedBy: userID,
		ExpiresAt: time.Now().Add(invitationTTL),
	}

	if err := s.invitations.Create(ctx, invitation); err != nil {
		return nil, err
	}

	inviterName := "A group member"
	if inviter, err := s.users.GetByID(ctx, userID); err == nil {
		inviterName = inviter.Name()
	}

	if s.sender != nil {
		go func(toEmail, groupName, inviter, token string) {
			sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := s.sender.SendGroupInvitation(sendCtx, toEmail, groupName, inviter, token); err != nil {
				log.Printf("[invitation] failed to send email to %s: %v", toEmail, err)
			}
		}(invitation.Email, group.Name, inviterName, invitation.Token)
	}

	log.Printf("[invitation] created for %s to group %s by %s", invitation.Email, groupID, userID)
	return invitation, nil
}

// ListByGroup, grubun davetlerini döner (sadece üyelere).
func (s *InvitationService) ListByGroup(ctx context.Context, userID, groupID string) ([]models.Invitation, error) {
	member, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("%w: not a member of this group", pkg.ErrForbidden)
	}

	return s.invitations.ListByGroup(ctx, groupID)
}

// Accept, daveti kabul eder ve kullanıcıyı gruba ekler.
//
// Hata haritası:
//   - token bulunamadı → ErrNotFound (404)
//   - davet zaten kabul edilmiş → ErrAlreadyExists (409)
//   - davet expired işaretli veya süresi yeni dolmuş → ErrGone (410);
//     süre dolumu bu denemede fark edildiyse satır önce expired'a çekilir —
//     bu yan etki hata dönülse bile KALICIDIR, kendi transaction'ında yazılır
//
// Kabulün kendisi (status güncelle + üyelik ekle) tek transaction'dır:
// üyelik eklenemezse davet pending kalır, tekrar denenebilir.
func (s *InvitationService) Accept(ctx context.Context, userID, token string) (*models.AcceptInvitationResult, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: invite token is required", pkg.ErrBadRequest)
	}

	invitation, err := s.invitations.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	switch invitation.Status {
	case models.InvitationAccepted:
		return nil, fmt.Errorf("%w: invitation already accepted", pkg.ErrAlreadyExists)
	case models.InvitationExpired:
		return nil, fmt.Errorf("%w: invitation has expired", pkg.ErrGone)
	}

	if invitation.Expired(time.Now()) {
		if err := s.invitations.UpdateStatus(ctx, invitation.ID, models.InvitationExpired); err != nil {
			log.Printf("[invitation] failed to mark %s expired: %v", invitation.ID, err)
		}
		return nil, fmt.Errorf("%w: invitation has expired", pkg.ErrGone)
	}

	group, err := s.groups.GetByID(ctx, invitation.GroupID)
	if err != nil {
		return nil, err
	}

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txInvitations := repository.NewSQLiteInvitationRepo(tx)
		txGroups := repository.NewSQLiteGroupRepo(tx)

		if err := txInvitations.UpdateStatus(ctx, invitation.ID, models.InvitationAccepted); err != nil {
			return err
		}
		return txGroups.AddMember(ctx, invitation.GroupID, userID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to accept invitation: %w", err)
	}

	groupScope := models.Conversation{Type: models.ConversationGroup, ID: invitation.GroupID}.Scope()
	s.feed.Record(ctx, groupScope, ws.SystemEventMemberJoin, userID, "")

	log.Printf("[invitation] %s accepted by %s, joined group %s", invitation.ID, userID, invitation.GroupID)
	return &models.AcceptInvitationResult{
		GroupID:   group.ID,
		GroupName: group.Name,
	}, nil
}
