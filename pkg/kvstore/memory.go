package kvstore

import (
	"context"
	"sync"
)

type Memory struct {
	mu    sync.RWMutex
	slots map[Slot][]byte
}

func NewMemory() *Memory {
	return &Memory{slots: make(map[Slot][]byte)}
}

func (m *Memory) Get(_ context.Context, slot Slot) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[slot]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Put(_ context.Context, slot Slot, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = append([]byte(nil), value...)
	return nil
}
