package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eraydn/odak/ai"
	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/pkg"
	"github.com/eraydn/odak/ws"
)

// fakeStreamer, deltalarını parça parça teslim eden sahte ChatStreamer.
type fakeStreamer struct {
	deltas      []string
	err         error
	lastHistory []ai.ChatMessage
	lastContext string
}

func (f *fakeStreamer) StreamChat(ctx context.Context, messages []ai.ChatMessage, chatContext string, onDelta func(delta string)) (string, error) {
	f.lastHistory = messages
	f.lastContext = chatContext

	var full string
	for _, d := range f.deltas {
		onDelta(d)
		full += d
	}
	return full, f.err
}

// newAIEnv, AI testlerinin ortak kurulumunu yapar: alice'in katılımcısı
// olduğu bir side thread + servis.
func newAIEnv(t *testing.T, streamer ChatStreamer) (*svcEnv, *AIService, *models.SideThread) {
	t.Helper()
	env := newSvcEnv(t)
	ctx := context.Background()

	thread := &models.SideThread{GroupID: env.group.ID, Name: "beyin fırtınası", CreatedBy: env.alice.ID}
	require.NoError(t, env.threads.Create(ctx, thread))
	require.NoError(t, env.threads.AddParticipant(ctx, thread.ID, env.alice.ID))

	typing := ws.NewTypingTracker(func(scope string, data ws.TypingEventData) {})
	svc := NewAIService(streamer, env.messages, env.threads, env.access, env.publisher, typing)
	return env, svc, thread
}

func TestAIChatStreamsAndPersists(t *testing.T) {
	streamer := &fakeStreamer{deltas: []string{"İki ", "fikir ", "öne çıkıyor."}}
	env, svc, thread := newAIEnv(t, streamer)
	ctx := context.Background()

	reply, err := svc.Chat(ctx, env.alice.ID, thread.ID, "Fikirleri değerlendirir misin?")
	require.NoError(t, err)

	require.NotNil(t, reply.Content)
	assert.Equal(t, "İki fikir öne çıkıyor.", *reply.Content)
	assert.True(t, reply.IsAI)

	// Thread adı gateway'e context ipucu olarak gitmiş olmalı
	assert.Equal(t, "Side thread: beyin fırtınası", streamer.lastContext)

	threadConv := models.Conversation{Type: models.ConversationThread, ID: thread.ID}

	// Prompt ve yanıt — ikisi de thread'de kalıcı
	page, err := env.messages.List(ctx, threadConv, "", 50)
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)

	// Her delta ayrı ai_stream_delta; kapanışta done=true
	deltas := env.publisher.byOp(ws.OpAIStreamDelta)
	require.Len(t, deltas, 4)
	for i, want := range []string{"İki ", "fikir ", "öne çıkıyor."} {
		data, ok := deltas[i].event.Data.(ws.AIStreamDeltaData)
		require.True(t, ok)
		assert.Equal(t, want, data.Delta)
		assert.Equal(t, reply.ID, data.MessageID)
		assert.False(t, data.Done)
	}
	closing, ok := deltas[3].event.Data.(ws.AIStreamDeltaData)
	require.True(t, ok)
	assert.True(t, closing.Done)

	// Prompt + tamamlanan yanıt için iki message_create
	creates := env.publisher.byOp(ws.OpMessageCreate)
	assert.Len(t, creates, 2)
}

func TestAIChatHistoryLabelsSpeakers(t *testing.T) {
	streamer := &fakeStreamer{deltas: []string{"ok"}}
	env, svc, thread := newAIEnv(t, streamer)
	ctx := context.Background()

	threadConv := models.Conversation{Type: models.ConversationThread, ID: thread.ID}
	env.seedMessage(t, threadConv, env.alice.ID, "İlk fikrim şu")

	_, err := svc.Chat(ctx, env.alice.ID, thread.ID, "Ne dersin?")
	require.NoError(t, err)

	// Geçmişte insan mesajları "Ad: içerik" formatıyla user rolündedir.
	// Aynı saniyede yazılan satırların sırası ID'ye bağlıdır, o yüzden
	// içerik kümesi üzerinden doğrularız.
	require.Len(t, streamer.lastHistory, 2)
	contents := make([]string, 0, 2)
	for _, m := range streamer.lastHistory {
		assert.Equal(t, "user", m.Role)
		contents = append(contents, m.Content)
	}
	assert.ElementsMatch(t, []string{"alice: İlk fikrim şu", "alice: Ne dersin?"}, contents)
}

func TestAIChatRequiresParticipation(t *testing.T) {
	env, svc, thread := newAIEnv(t, &fakeStreamer{deltas: []string{"x"}})

	// bob grup üyesi ama thread katılımcısı değil
	_, err := svc.Chat(context.Background(), env.bob.ID, thread.ID, "merhaba")
	assert.ErrorIs(t, err, pkg.ErrForbidden)
}

func TestAIChatPersistsPartialOnStreamError(t *testing.T) {
	streamer := &fakeStreamer{deltas: []string{"Yarım "}, err: assert.AnError}
	env, svc, thread := newAIEnv(t, streamer)
	ctx := context.Background()

	// Yarıda kopan stream: o ana kadarki içerik yine kalıcılaşır
	reply, err := svc.Chat(ctx, env.alice.ID, thread.ID, "devam et")
	require.NoError(t, err)
	require.NotNil(t, reply.Content)
	assert.Equal(t, "Yarım ", *reply.Content)
	assert.True(t, reply.IsAI)
}

func TestAIChatFailsWhenNothingStreamed(t *testing.T) {
	streamer := &fakeStreamer{err: assert.AnError}
	env, svc, thread := newAIEnv(t, streamer)
	ctx := context.Background()

	_, err := svc.Chat(ctx, env.alice.ID, thread.ID, "merhaba")
	require.Error(t, err)

	// Prompt yine de kalıcıdır — kullanıcı yazdığını kaybetmez
	threadConv := models.Conversation{Type: models.ConversationThread, ID: thread.ID}
	page, err := env.messages.List(ctx, threadConv, "", 50)
	require.NoError(t, err)
	assert.Len(t, page.Messages, 1)
}
