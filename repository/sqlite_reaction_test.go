package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactionToggle(t *testing.T) {
	env := newTestEnv(t)
	reactions := NewSQLiteReactionRepo(env.db.Conn)
	ctx := context.Background()

	msg := env.send(t, env.alice.ID, "bir fikir")

	// İlk toggle → ekler
	added, err := reactions.Toggle(ctx, env.conv, msg.ID, env.bob.ID, "👍")
	require.NoError(t, err)
	assert.True(t, added)

	// Aynı emoji ikinci kez → kaldırır
	added, err = reactions.Toggle(ctx, env.conv, msg.ID, env.bob.ID, "👍")
	require.NoError(t, err)
	assert.False(t, added)

	groups, err := reactions.GetByMessageID(ctx, env.conv, msg.ID)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestReactionGrouping(t *testing.T) {
	env := newTestEnv(t)
	reactions := NewSQLiteReactionRepo(env.db.Conn)
	ctx := context.Background()

	msg := env.send(t, env.alice.ID, "oylayalım")

	_, err := reactions.Toggle(ctx, env.conv, msg.ID, env.alice.ID, "👍")
	require.NoError(t, err)
	_, err = reactions.Toggle(ctx, env.conv, msg.ID, env.bob.ID, "👍")
	require.NoError(t, err)
	_, err = reactions.Toggle(ctx, env.conv, msg.ID, env.bob.ID, "🎉")
	require.NoError(t, err)

	groups, err := reactions.GetByMessageID(ctx, env.conv, msg.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// İlk eklenen emoji önce gelir (MIN(created_at) sırası)
	assert.Equal(t, "👍", groups[0].Emoji)
	assert.Equal(t, 2, groups[0].Count)
	assert.ElementsMatch(t, []string{env.alice.ID, env.bob.ID}, groups[0].Users)

	assert.Equal(t, "🎉", groups[1].Emoji)
	assert.Equal(t, 1, groups[1].Count)
}

func TestReactionBatchLoad(t *testing.T) {
	env := newTestEnv(t)
	reactions := NewSQLiteReactionRepo(env.db.Conn)
	ctx := context.Background()

	m1 := env.send(t, env.alice.ID, "bir")
	m2 := env.send(t, env.alice.ID, "iki")
	m3 := env.send(t, env.alice.ID, "üç")

	_, err := reactions.Toggle(ctx, env.conv, m1.ID, env.bob.ID, "❤️")
	require.NoError(t, err)
	_, err = reactions.Toggle(ctx, env.conv, m2.ID, env.bob.ID, "😂")
	require.NoError(t, err)

	byMessage, err := reactions.GetByMessageIDs(ctx, env.conv, []string{m1.ID, m2.ID, m3.ID})
	require.NoError(t, err)

	assert.Len(t, byMessage[m1.ID], 1)
	assert.Len(t, byMessage[m2.ID], 1)
	assert.Empty(t, byMessage[m3.ID]) // reaksiyonsuz mesaj map'te olmayabilir — boş kabul
}

func TestReceiptIdempotent(t *testing.T) {
	env := newTestEnv(t)
	receipts := NewSQLiteReceiptRepo(env.db.Conn)
	ctx := context.Background()

	msg := env.send(t, env.alice.ID, "okundu mu?")

	created, first, err := receipts.Mark(ctx, env.conv, msg.ID, env.bob.ID)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, first)

	// İkinci işaretleme no-op: created=false, ilk read_at korunur
	created, second, err := receipts.Mark(ctx, env.conv, msg.ID, env.bob.ID)
	require.NoError(t, err)
	assert.False(t, created)
	require.NotNil(t, second)
	assert.Equal(t, first.ReadAt, second.ReadAt)

	list, err := receipts.GetByMessageID(ctx, env.conv, msg.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, env.bob.ID, list[0].UserID)
}

func TestReceiptBatchLoad(t *testing.T) {
	env := newTestEnv(t)
	receipts := NewSQLiteReceiptRepo(env.db.Conn)
	ctx := context.Background()

	m1 := env.send(t, env.alice.ID, "bir")
	m2 := env.send(t, env.alice.ID, "iki")

	_, _, err := receipts.Mark(ctx, env.conv, m1.ID, env.bob.ID)
	require.NoError(t, err)
	_, _, err = receipts.Mark(ctx, env.conv, m1.ID, env.alice.ID)
	require.NoError(t, err)

	byMessage, err := receipts.GetByMessageIDs(ctx, env.conv, []string{m1.ID, m2.ID})
	require.NoError(t, err)
	assert.Len(t, byMessage[m1.ID], 2)
	assert.Empty(t, byMessage[m2.ID])
}
