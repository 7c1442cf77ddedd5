package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrSlotEmpty is returned when a slot has never been written.
var ErrSlotEmpty = errors.New("slot empty")

// Slot is a named, string-valued durable storage location. Writes are
// last-writer-wins across processes; there is no conflict detection.
type Slot interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
	Close()
}

// MemorySlot keeps slot values in process memory. Used for tests and as
// the fallback backend when no external store is configured.
type MemorySlot struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemorySlot creates an empty in-memory slot store.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string]string)}
}

func (m *MemorySlot) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	if !ok {
		return "", ErrSlotEmpty
	}
	return value, nil
}

func (m *MemorySlot) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemorySlot) Ping(ctx context.Context) error { return nil }

func (m *MemorySlot) Close() {}
