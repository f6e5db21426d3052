package services

import (
	"context"
	"fmt"
	"log"

	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/pkg"
	"github.com/eraydn/odak/repository"
	"github.com/eraydn/odak/ws"
)

// GroupService, grup yaşam döngüsü ve üyelik iş mantığı.
type GroupService struct {
	groups repository.GroupRepository
	feed   *ws.EventFeed
}

func NewGroupService(groups repository.GroupRepository, feed *ws.EventFeed) *GroupService {
	return &GroupService{groups: groups, feed: feed}
}

// Create, yeni grup oluşturur; oluşturan kullanıcı otomatik üye olur.
func (s *GroupService) Create(ctx context.Context, userID string, req *models.CreateGroupRequest) (*models.Group, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	group := &models.Group{Name: req.Name, CreatedBy: userID}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, err
	}

	if err := s.groups.AddMember(ctx, group.ID, userID); err != nil {
		return nil, err
	}

	log.Printf("[group] created: %s (%s) by %s", group.Name, group.ID, userID)
	return group, nil
}

// List, kullanıcının üyesi olduğu grupları döner.
func (s *GroupService) List(ctx context.Context, userID string) ([]models.Group, error) {
	return s.groups.ListByUser(ctx, userID)
}

// Get, grubu döner — kullanıcı üye değilse ErrForbidden.
func (s *GroupService) Get(ctx context.Context, userID, groupID string) (*models.Group, error) {
	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.groups.GetByID(ctx, groupID)
}

// Members, grup üye listesini döner.
func (s *GroupService) Members(ctx context.Context, userID, groupID string) ([]models.GroupMember, error) {
	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.groups.ListMembers(ctx, groupID)
}

// Leave, kullanıcıyı gruptan çıkarır ve aktivite şeridine yazar.
func (s *GroupService) Leave(ctx context.Context, userID, groupID string) error {
	if err := s.groups.RemoveMember(ctx, groupID, userID); err != nil {
		return err
	}

	conv := models.Conversation{Type: models.ConversationGroup, ID: groupID}
	s.feed.Record(ctx, conv.Scope(), ws.SystemEventMemberLeave, userID, "")

	log.Printf("[group] user %s left group %s", userID, groupID)
	return nil
}

func (s *GroupService) requireMember(ctx context.Context, groupID, userID string) error {
	ok, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: not a member of this group", pkg.ErrForbidden)
	}
	return nil
}
