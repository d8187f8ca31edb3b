package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNoValue is returned by a Backend when nothing is stored under a key.
var ErrNoValue = errors.New("store: no value")

// Backend persists opaque values per shopper session. Each value is the full
// JSON text of one sequence, so backends never see partial updates.
type Backend interface {
	Get(ctx context.Context, sessionID, key string) ([]byte, error)
	Set(ctx context.Context, sessionID, key string, value []byte) error
	Delete(ctx context.Context, sessionID, key string) error
}

type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string]map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: map[string]map[string][]byte{}}
}

func (m *MemoryBackend) Get(_ context.Context, sessionID, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[sessionID][key]
	if !ok {
		return nil, ErrNoValue
	}
	return append([]byte(nil), value...), nil
}

func (m *MemoryBackend) Set(_ context.Context, sessionID, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.values[sessionID]
	if !ok {
		session = map[string][]byte{}
		m.values[sessionID] = session
	}
	session[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, sessionID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values[sessionID], key)
	if len(m.values[sessionID]) == 0 {
		delete(m.values, sessionID)
	}
	return nil
}
