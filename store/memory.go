package store

import (
	"context"
	"sync"
)

// =============================================================================
// MEMORY MEDIUM - In-memory slot (for testing/dev)
// =============================================================================

// Memory keeps the slot in process memory.
type Memory struct {
	mu      sync.RWMutex
	payload []byte
	present bool
}

func NewMemory() *Memory {
	return &Memory{}
}

// Seed places a raw blob in the slot, bypassing the gateway. Useful for
// corruption tests.
func (m *Memory) Seed(payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = append([]byte(nil), payload...)
	m.present = true
}

func (m *Memory) Read(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.present {
		return nil, nil
	}
	return append([]byte(nil), m.payload...), nil
}

func (m *Memory) Write(_ context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = append([]byte(nil), payload...)
	m.present = true
	return nil
}

func (m *Memory) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = nil
	m.present = false
	return nil
}
