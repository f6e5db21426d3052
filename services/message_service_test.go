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

func newMessageService(env *svcEnv) *MessageService {
	typing := ws.NewTypingTracker(func(scope string, data ws.TypingEventData) {})
	return NewMessageService(env.messages, env.reactions, env.receipts, env.access, env.publisher, typing)
}

func TestMessageSendBroadcasts(t *testing.T) {
	env := newSvcEnv(t)
	svc := newMessageService(env)
	ctx := context.Background()

	msg, err := svc.Send(ctx, env.alice.ID, env.conv, &models.CreateMessageRequest{Content: "merhaba takım"})
	require.NoError(t, err)

	// Yanıttaki mesaj yazar JOIN'li tam halidir
	require.NotNil(t, msg.Author)
	assert.Equal(t, "alice", msg.Author.Username)

	broadcasts := env.publisher.byOp(ws.OpMessageCreate)
	require.Len(t, broadcasts, 1)
	assert.Equal(t, env.conv.Scope(), broadcasts[0].scope)
	data, ok := broadcasts[0].event.Data.(ws.MessageEventData)
	require.True(t, ok)
	assert.Equal(t, msg.ID, data.MessageID)
}

func TestMessageSendRequiresAccess(t *testing.T) {
	env := newSvcEnv(t)
	svc := newMessageService(env)

	_, err := svc.Send(context.Background(), env.carol.ID, env.conv, &models.CreateMessageRequest{Content: "dışarıdan"})
	assert.ErrorIs(t, err, pkg.ErrForbidden)
	assert.Empty(t, env.publisher.byOp(ws.OpMessageCreate))
}

func TestMessageSendRejectsEmpty(t *testing.T) {
	env := newSvcEnv(t)
	svc := newMessageService(env)

	_, err := svc.Send(context.Background(), env.alice.ID, env.conv, &models.CreateMessageRequest{Content: "   "})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestMessageSendValidatesReplyTarget(t *testing.T) {
	env := newSvcEnv(t)
	svc := newMessageService(env)
	ctx := context.Background()

	original, err := svc.Send(ctx, env.alice.ID, env.conv, &models.CreateMessageRequest{Content: "asıl mesaj"})
	require.NoError(t, err)

	reply, err := svc.Send(ctx, env.bob.ID, env.conv, &models.CreateMessageRequest{Content: "yanıt", ReplyToID: &original.ID})
	require.NoError(t, err)
	require.NotNil(t, reply.ReplyToID)
	assert.Equal(t, original.ID, *reply.ReplyToID)

	// Var olmayan (veya başka scope'taki) mesaja yanıt verilemez
	badID := "no-such-message"
	_, err = svc.Send(ctx, env.bob.ID, env.conv, &models.CreateMessageRequest{Content: "boşa yanıt", ReplyToID: &badID})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestMessageEditAuthorOnly(t *testing.T) {
	env := newSvcEnv(t)
	svc := newMessageService(env)
	ctx := context.Background()

	msg, err := svc.Send(ctx, env.alice.ID, env.conv, &models.CreateMessageRequest{Content: "ilk hali"})
	require.NoError(t, err)

	// bob erişebilir ama yazar değil — düzenleyemez
	_, err = svc.Edit(ctx, env.bob.ID, env.conv, msg.ID, &models.UpdateMessageRequest{Content: "bob'un hali"})
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	updated, err := svc.Edit(ctx, env.alice.ID, env.conv, msg.ID, &models.UpdateMessageRequest{Content: "düzeltilmiş"})
	require.NoError(t, err)
	require.NotNil(t, updated.Content)
	assert.Equal(t, "düzeltilmiş", *updated.Content)
	assert.NotNil(t, updated.EditedAt)

	broadcasts := env.publisher.byOp(ws.OpMessageUpdate)
	require.Len(t, broadcasts, 1)
	assert.Equal(t, env.conv.Scope(), broadcasts[0].scope)
}

func TestMessageDeleteAuthorOnly(t *testing.T) {
	env := newSvcEnv(t)
	svc := newMessageService(env)
	ctx := context.Background()

	msg, err := svc.Send(ctx, env.alice.ID, env.conv, &models.CreateMessageRequest{Content: "silinecek"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, env.bob.ID, env.conv, msg.ID), pkg.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, env.alice.ID, env.conv, msg.ID))
	_, err = env.messages.GetByID(ctx, env.conv, msg.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	broadcasts := env.publisher.byOp(ws.OpMessageDelete)
	require.Len(t, broadcasts, 1)
}

func TestMessagePinAnyMember(t *testing.T) {
	env := newSvcEnv(t)
	svc := newMessageService(env)
	ctx := context.Background()

	msg, err := svc.Send(ctx, env.alice.ID, env.conv, &models.CreateMessageRequest{Content: "önemli duyuru"})
	require.NoError(t, err)

	// Pin'lemek için yazar olmak gerekmez
	pinned, err := svc.SetPinned(ctx, env.bob.ID, env.conv, msg.ID, true)
	require.NoError(t, err)
	assert.True(t, pinned.Pinned)
	require.Len(t, env.publisher.byOp(ws.OpMessagePin), 1)

	list, err := svc.Pinned(ctx, env.bob.ID, env.conv)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, msg.ID, list[0].ID)

	unpinned, err := svc.SetPinned(ctx, env.bob.ID, env.conv, msg.ID, false)
	require.NoError(t, err)
	assert.False(t, unpinned.Pinned)
	require.Len(t, env.publisher.byOp(ws.OpMessageUnpin), 1)
}

func TestMessageListEnrichesReactions(t *testing.T) {
	env := newSvcEnv(t)
	svc := newMessageService(env)
	ctx := context.Background()

	msg, err := svc.Send(ctx, env.alice.ID, env.conv, &models.CreateMessageRequest{Content: "beğenilecek"})
	require.NoError(t, err)

	_, err = env.reactions.Toggle(ctx, env.conv, msg.ID, env.bob.ID, "👍")
	require.NoError(t, err)

	// bob'un gözünden: HasReacted true
	page, err := svc.List(ctx, env.bob.ID, env.conv, "", 50)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	require.Len(t, page.Messages[0].Reactions, 1)
	assert.Equal(t, "👍", page.Messages[0].Reactions[0].Emoji)
	assert.True(t, page.Messages[0].Reactions[0].HasReacted)

	// alice'in gözünden: aynı grup ama HasReacted false
	page, err = svc.List(ctx, env.alice.ID, env.conv, "", 50)
	require.NoError(t, err)
	assert.False(t, page.Messages[0].Reactions[0].HasReacted)
}
