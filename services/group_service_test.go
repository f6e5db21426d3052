package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/pkg"
	"github.com/eraydn/odak/ws"
)

func TestGroupCreateAddsCreatorAsMember(t *testing.T) {
	env := newSvcEnv(t)
	svc := NewGroupService(env.groups, env.feed)
	ctx := context.Background()

	group, err := svc.Create(ctx, env.carol.ID, &models.CreateGroupRequest{Name: "  carol'un grubu  "})
	require.NoError(t, err)
	assert.Equal(t, "carol'un grubu", group.Name) // trim edilir

	member, err := env.groups.IsMember(ctx, group.ID, env.carol.ID)
	require.NoError(t, err)
	assert.True(t, member)

	groups, err := svc.List(ctx, env.carol.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, group.ID, groups[0].ID)
}

func TestGroupGetRequiresMembership(t *testing.T) {
	env := newSvcEnv(t)
	svc := NewGroupService(env.groups, env.feed)
	ctx := context.Background()

	group, err := svc.Get(ctx, env.alice.ID, env.group.ID)
	require.NoError(t, err)
	assert.Equal(t, "takım", group.Name)

	_, err = svc.Get(ctx, env.carol.ID, env.group.ID)
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	_, err = svc.Members(ctx, env.carol.ID, env.group.ID)
	assert.ErrorIs(t, err, pkg.ErrForbidden)
}

func TestGroupLeaveRecordsFeedEvent(t *testing.T) {
	env := newSvcEnv(t)
	svc := NewGroupService(env.groups, env.feed)
	ctx := context.Background()

	require.NoError(t, svc.Leave(ctx, env.bob.ID, env.group.ID))

	member, err := env.groups.IsMember(ctx, env.group.ID, env.bob.ID)
	require.NoError(t, err)
	assert.False(t, member)

	events := env.feed.Events(env.conv.Scope())
	require.Len(t, events, 1)
	assert.Equal(t, ws.SystemEventMemberLeave, events[0].Type)
	assert.Equal(t, "bob left the group", events[0].Message)

	// Üye olmayan tekrar ayrılamaz
	assert.ErrorIs(t, svc.Leave(ctx, env.bob.ID, env.group.ID), pkg.ErrNotFound)
}
