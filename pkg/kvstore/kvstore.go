// Package kvstore — küçük, genel amaçlı key-value deposu.
//
// Unread watermark map'leri gibi "şemaya tablo açmaya değmeyecek" veriler
// için kullanılır. Store bir interface'tir: üretimde SQLite'a yazan
// implementasyon, testlerde in-memory implementasyon bağlanır —
// depoyu kullanan kod hangisinin arkada olduğunu bilmez.
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound, key deposu olmayan bir key okunduğunda döner.
var ErrNotFound = errors.New("kvstore: key not found")

// Store, key-value deposu interface'i.
type Store interface {
	// Get, key'in değerini döner. Key yoksa ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set, key'i yazar veya üzerine yazar (upsert).
	Set(ctx context.Context, key, value string) error

	// Delete, key'i siler. Key yoksa hata dönmez.
	Delete(ctx context.Context, key string) error
}
