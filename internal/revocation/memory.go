package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryRegistry is a process-local Registry for development and tests.
type MemoryRegistry struct {
	Now func() time.Time

	mu      sync.Mutex
	entries map[string]time.Time
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{Now: time.Now, entries: make(map[string]time.Time)}
}

func (m *MemoryRegistry) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *MemoryRegistry) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = make(map[string]time.Time)
	}
	m.entries[tokenID] = m.now().Add(ttl)
	return nil
}

func (m *MemoryRegistry) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.entries[tokenID]
	if !ok {
		return false, nil
	}
	if !m.now().Before(exp) {
		delete(m.entries, tokenID)
		return false, nil
	}
	return true, nil
}

// Purge drops expired entries and returns how many were removed.
func (m *MemoryRegistry) Purge() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for id, exp := range m.entries {
		if !now.Before(exp) {
			delete(m.entries, id)
			n++
		}
	}
	return n
}

func (m *MemoryRegistry) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
