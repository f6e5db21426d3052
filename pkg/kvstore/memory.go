package kvstore

import (
	"context"
	"sync"
)

// memoryStore, Store'un in-memory implementasyonu.
// Testlerde gerçek DB açmadan watermark mantığını çalıştırmak için.
type memoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory, boş bir in-memory store döner.
func NewMemory() Store {
	return &memoryStore{data: make(map[string]string)}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
