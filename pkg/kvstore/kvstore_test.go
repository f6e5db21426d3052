package kvstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eraydn/odak/database"
)

// İki implementasyon aynı sözleşmeyi taşır — aynı test ikisine de koşulur.
func TestStoreImplementations(t *testing.T) {
	stores := map[string]Store{
		"memory": NewMemory(),
	}

	db, err := database.New(filepath.Join(t.TempDir(), "kv.db"), database.EmbeddedMigrations)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	stores["sqlite"] = NewSQLite(db.Conn)

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Set(ctx, "k", "v1"))
			got, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "v1", got)

			// Set upsert'tir
			require.NoError(t, store.Set(ctx, "k", "v2"))
			got, err = store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "v2", got)

			require.NoError(t, store.Delete(ctx, "k"))
			_, err = store.Get(ctx, "k")
			assert.ErrorIs(t, err, ErrNotFound)

			// Olmayan key'i silmek hata değildir
			assert.NoError(t, store.Delete(ctx, "k"))
		})
	}
}
