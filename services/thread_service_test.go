package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/pkg"
	"github.com/eraydn/odak/ws"
)

// fakeSummarizer, verilen dökümü kaydedip sabit bir özet döner.
type fakeSummarizer struct {
	lastThreadName string
	lastTranscript string
	summary        string
	err            error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, threadName, transcript string) (string, error) {
	f.lastThreadName = threadName
	f.lastTranscript = transcript
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

func newThreadService(env *svcEnv, summarizer Summarizer) *ThreadService {
	return NewThreadService(env.threads, env.groups, env.messages, summarizer, env.feed, env.publisher)
}

func TestThreadCreateAnnouncesToGroup(t *testing.T) {
	env := newSvcEnv(t)
	svc := newThreadService(env, &fakeSummarizer{})
	ctx := context.Background()

	thread, err := svc.Create(ctx, env.alice.ID, env.group.ID, &models.CreateThreadRequest{
		Name:           "Logo fikirleri",
		ParticipantIDs: []string{env.bob.ID},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, thread.ID)

	// Oluşturan da, listedeki bob da katılımcı
	for _, userID := range []string{env.alice.ID, env.bob.ID} {
		ok, err := env.threads.IsParticipant(ctx, thread.ID, userID)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	// Thread'in VARLIĞI grup şeridinde duyurulur — içeriği değil
	events := env.feed.Events(env.conv.Scope())
	require.Len(t, events, 1)
	assert.Equal(t, ws.SystemEventThreadCreate, events[0].Type)
	assert.Equal(t, "alice started a side thread: Logo fikirleri", events[0].Message)
}

func TestThreadCreateRejectsNonMemberParticipant(t *testing.T) {
	env := newSvcEnv(t)
	svc := newThreadService(env, &fakeSummarizer{})

	_, err := svc.Create(context.Background(), env.alice.ID, env.group.ID, &models.CreateThreadRequest{
		Name:           "gizli",
		ParticipantIDs: []string{env.carol.ID}, // carol grup üyesi değil
	})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestThreadHiddenFromNonParticipants(t *testing.T) {
	env := newSvcEnv(t)
	svc := newThreadService(env, &fakeSummarizer{})
	ctx := context.Background()

	thread, err := svc.Create(ctx, env.alice.ID, env.group.ID, &models.CreateThreadRequest{Name: "sadece alice"})
	require.NoError(t, err)

	// bob grup üyesi ama katılımcı değil — thread onun için YOK (403 değil 404)
	_, err = svc.Get(ctx, env.bob.ID, thread.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	threads, err := svc.List(ctx, env.bob.ID, env.group.ID)
	require.NoError(t, err)
	assert.Empty(t, threads)
}

func TestThreadSummarizeToGroup(t *testing.T) {
	env := newSvcEnv(t)
	summarizer := &fakeSummarizer{summary: "Mavi logo üzerinde anlaşıldı."}
	svc := newThreadService(env, summarizer)
	ctx := context.Background()

	thread, err := svc.Create(ctx, env.alice.ID, env.group.ID, &models.CreateThreadRequest{
		Name:           "Logo fikirleri",
		ParticipantIDs: []string{env.bob.ID},
	})
	require.NoError(t, err)

	threadConv := models.Conversation{Type: models.ConversationThread, ID: thread.ID}
	env.seedMessage(t, threadConv, env.alice.ID, "Mavi olsun")
	env.seedMessage(t, threadConv, env.bob.ID, "Katılıyorum")

	result, err := svc.SummarizeToGroup(ctx, env.alice.ID, thread.ID)
	require.NoError(t, err)

	// Özet, tetikleyen adına is_ai işaretli bir GRUP mesajıdır
	require.NotNil(t, result.Message)
	assert.True(t, result.Message.IsAI)
	assert.Equal(t, env.alice.ID, result.Message.UserID)
	require.NotNil(t, result.Message.Content)
	assert.Equal(t, "🤖 AI Summary — Logo fikirleri:\nMavi logo üzerinde anlaşıldı.", *result.Message.Content)

	// Özet mesajı gerçekten grup tablosunda
	stored, err := env.messages.GetByID(ctx, env.conv, result.Message.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsAI)

	// Döküm "Ad: içerik" satırlarından oluşur
	assert.Equal(t, "Logo fikirleri", summarizer.lastThreadName)
	assert.True(t, strings.Contains(summarizer.lastTranscript, "alice: Mavi olsun"))
	assert.True(t, strings.Contains(summarizer.lastTranscript, "bob: Katılıyorum"))

	// Grup scope'una message_create broadcast edilir — thread'i hiç
	// görmeyen üyeler özeti anında görür
	broadcasts := env.publisher.byOp(ws.OpMessageCreate)
	require.Len(t, broadcasts, 1)
	assert.Equal(t, env.conv.Scope(), broadcasts[0].scope)
	data, ok := broadcasts[0].event.Data.(ws.MessageEventData)
	require.True(t, ok)
	assert.Equal(t, result.Message.ID, data.MessageID)
}

func TestThreadSummarizeEmptyThread(t *testing.T) {
	env := newSvcEnv(t)
	svc := newThreadService(env, &fakeSummarizer{summary: "boş"})
	ctx := context.Background()

	thread, err := svc.Create(ctx, env.alice.ID, env.group.ID, &models.CreateThreadRequest{Name: "boş thread"})
	require.NoError(t, err)

	_, err = svc.SummarizeToGroup(ctx, env.alice.ID, thread.ID)
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestThreadSummarizeRequiresParticipation(t *testing.T) {
	env := newSvcEnv(t)
	svc := newThreadService(env, &fakeSummarizer{summary: "x"})
	ctx := context.Background()

	thread, err := svc.Create(ctx, env.alice.ID, env.group.ID, &models.CreateThreadRequest{Name: "alice'in alanı"})
	require.NoError(t, err)

	threadConv := models.Conversation{Type: models.ConversationThread, ID: thread.ID}
	env.seedMessage(t, threadConv, env.alice.ID, "not")

	_, err = svc.SummarizeToGroup(ctx, env.bob.ID, thread.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestThreadSummarizeUpstreamFailure(t *testing.T) {
	env := newSvcEnv(t)
	svc := newThreadService(env, &fakeSummarizer{err: assert.AnError})
	ctx := context.Background()

	thread, err := svc.Create(ctx, env.alice.ID, env.group.ID, &models.CreateThreadRequest{Name: "t"})
	require.NoError(t, err)

	threadConv := models.Conversation{Type: models.ConversationThread, ID: thread.ID}
	env.seedMessage(t, threadConv, env.alice.ID, "içerik")

	_, err = svc.SummarizeToGroup(ctx, env.alice.ID, thread.ID)
	require.Error(t, err)

	// AI başarısızsa gruba mesaj DÜŞMEZ
	page, err := env.messages.List(ctx, env.conv, "", 50)
	require.NoError(t, err)
	assert.Empty(t, page.Messages)
}
