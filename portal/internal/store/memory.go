package store

import (
	"context"
	"sync"
)

var _ Store = (*memoryStore)(nil)

type memoryStore struct {
	mu      sync.RWMutex
	buckets map[string][]byte
}

func NewMemory() *memoryStore {
	return &memoryStore{buckets: make(map[string][]byte)}
}

func (m *memoryStore) Get(_ context.Context, bucket string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payload, ok := m.buckets[bucket]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), payload...), true, nil
}

func (m *memoryStore) Put(_ context.Context, bucket string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buckets[bucket] = append([]byte(nil), payload...)
	return nil
}

func (m *memoryStore) Close() error { return nil }
