package store

import "sync"

// Memory is an in-memory Repo for tests and hosts without durable storage.
type Memory struct {
	mu     sync.RWMutex
	record *Record
	saves  int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load() (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.record == nil {
		return nil, nil
	}
	copied := *m.record
	return normalize(&copied), nil
}

func (m *Memory) Save(record *Record) error {
	record = normalize(record)
	if record == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *record
	m.record = &copied
	m.saves++
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record = nil
	return nil
}

// Saves reports how many writes have landed. Used by tests asserting the
// single-writer discipline.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.saves
}
