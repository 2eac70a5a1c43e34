package storage

import (
	"context"
	"sync"
)

// Memory is an in-memory Backend.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ Backend = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		values: make(map[string]string),
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrInvalidKey
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, items map[string]string) error {
	for k := range items {
		if k == "" {
			return ErrInvalidKey
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range items {
		m.values[k] = v
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

// Len reports how many keys are stored.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
