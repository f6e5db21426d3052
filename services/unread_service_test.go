package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/pkg"
	"github.com/eraydn/odak/pkg/kvstore"
)

func newUnreadService(env *svcEnv, store kvstore.Store) *UnreadService {
	return NewUnreadService(store, env.messages, env.groups, env.threads, env.access)
}

// setWatermark, kullanıcının scope watermark'ını doğrudan store'a yazar —
// "MarkRead şu zamanda çağrılmıştı" senaryosu kurmak için.
func setWatermark(t *testing.T, store kvstore.Store, userID, scope string, at time.Time) {
	t.Helper()
	raw, err := json.Marshal(map[string]string{scope: at.UTC().Format(time.RFC3339)})
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "unread:"+userID, string(raw)))
}

func TestUnreadCountExcludesOwnMessages(t *testing.T) {
	env := newSvcEnv(t)
	svc := newUnreadService(env, kvstore.NewMemory())
	ctx := context.Background()

	env.seedMessage(t, env.conv, env.alice.ID, "bir")
	env.seedMessage(t, env.conv, env.alice.ID, "iki")
	env.seedMessage(t, env.conv, env.bob.ID, "üç")

	// Watermark yok — başkalarının TÜM mesajları okunmamış sayılır
	info, err := svc.Count(ctx, env.alice.ID, env.conv)
	require.NoError(t, err)
	assert.Equal(t, env.conv.Scope(), info.Scope)
	assert.Equal(t, 1, info.UnreadCount)

	info, err = svc.Count(ctx, env.bob.ID, env.conv)
	require.NoError(t, err)
	assert.Equal(t, 2, info.UnreadCount)
}

func TestUnreadMarkReadZeroesCount(t *testing.T) {
	env := newSvcEnv(t)
	store := kvstore.NewMemory()
	svc := newUnreadService(env, store)
	ctx := context.Background()

	env.seedMessage(t, env.conv, env.bob.ID, "merhaba")

	require.NoError(t, svc.MarkRead(ctx, env.alice.ID, env.conv))

	info, err := svc.Count(ctx, env.alice.ID, env.conv)
	require.NoError(t, err)
	assert.Equal(t, 0, info.UnreadCount)
}

func TestUnreadWatermarkSplitsOldFromNew(t *testing.T) {
	env := newSvcEnv(t)
	store := kvstore.NewMemory()
	svc := newUnreadService(env, store)
	ctx := context.Background()

	env.seedMessage(t, env.conv, env.bob.ID, "eski")
	env.seedMessage(t, env.conv, env.bob.ID, "yeni")

	// Watermark geçmişte → ikisi de okunmamış
	setWatermark(t, store, env.alice.ID, env.conv.Scope(), time.Now().Add(-time.Hour))
	info, err := svc.Count(ctx, env.alice.ID, env.conv)
	require.NoError(t, err)
	assert.Equal(t, 2, info.UnreadCount)

	// Watermark gelecekte → sıfır
	setWatermark(t, store, env.alice.ID, env.conv.Scope(), time.Now().Add(time.Hour))
	info, err = svc.Count(ctx, env.alice.ID, env.conv)
	require.NoError(t, err)
	assert.Equal(t, 0, info.UnreadCount)
}

func TestUnreadCorruptWatermarkResets(t *testing.T) {
	env := newSvcEnv(t)
	store := kvstore.NewMemory()
	svc := newUnreadService(env, store)
	ctx := context.Background()

	env.seedMessage(t, env.conv, env.bob.ID, "mesaj")

	// Bozuk JSON — servis baştan başlatır, her şey okunmamış görünür
	require.NoError(t, store.Set(ctx, "unread:"+env.alice.ID, "{{{not json"))

	info, err := svc.Count(ctx, env.alice.ID, env.conv)
	require.NoError(t, err)
	assert.Equal(t, 1, info.UnreadCount)
}

func TestUnreadCountRequiresAccess(t *testing.T) {
	env := newSvcEnv(t)
	svc := newUnreadService(env, kvstore.NewMemory())

	_, err := svc.Count(context.Background(), env.carol.ID, env.conv)
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	assert.ErrorIs(t, svc.MarkRead(context.Background(), env.carol.ID, env.conv), pkg.ErrForbidden)
}

func TestUnreadCountsSpanGroupsAndThreads(t *testing.T) {
	env := newSvcEnv(t)
	svc := newUnreadService(env, kvstore.NewMemory())
	ctx := context.Background()

	thread := &models.SideThread{GroupID: env.group.ID, Name: "yan konu", CreatedBy: env.alice.ID}
	require.NoError(t, env.threads.Create(ctx, thread))
	require.NoError(t, env.threads.AddParticipant(ctx, thread.ID, env.alice.ID))
	require.NoError(t, env.threads.AddParticipant(ctx, thread.ID, env.bob.ID))

	threadConv := models.Conversation{Type: models.ConversationThread, ID: thread.ID}
	env.seedMessage(t, env.conv, env.bob.ID, "grupta")
	env.seedMessage(t, threadConv, env.bob.ID, "thread'de")
	env.seedMessage(t, threadConv, env.bob.ID, "yine thread'de")

	infos, err := svc.Counts(ctx, env.alice.ID)
	require.NoError(t, err)

	counts := make(map[string]int, len(infos))
	for _, info := range infos {
		counts[info.Scope] = info.UnreadCount
	}
	assert.Equal(t, 1, counts[env.conv.Scope()])
	assert.Equal(t, 2, counts[threadConv.Scope()])
}

func TestUnreadCountsSkipForeignThreads(t *testing.T) {
	env := newSvcEnv(t)
	svc := newUnreadService(env, kvstore.NewMemory())
	ctx := context.Background()

	// bob'un katılımcısı OLMADIĞI bir thread — sidebar'ında görünmemeli
	thread := &models.SideThread{GroupID: env.group.ID, Name: "aliceozel", CreatedBy: env.alice.ID}
	require.NoError(t, env.threads.Create(ctx, thread))
	require.NoError(t, env.threads.AddParticipant(ctx, thread.ID, env.alice.ID))

	threadConv := models.Conversation{Type: models.ConversationThread, ID: thread.ID}
	env.seedMessage(t, threadConv, env.alice.ID, "gizli")

	infos, err := svc.Counts(ctx, env.bob.ID)
	require.NoError(t, err)
	for _, info := range infos {
		assert.NotEqual(t, threadConv.Scope(), info.Scope)
	}
}
