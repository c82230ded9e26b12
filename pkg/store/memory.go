package store

import (
	"context"
	"errors"
	"sync"
)

// DefaultCapacity is the number of snapshots a MemoryStore keeps.
const DefaultCapacity = 100

// MemoryStore keeps the most recent snapshots in memory. Older snapshots
// are dropped once capacity is reached.
type MemoryStore struct {
	mu    sync.RWMutex
	ring  []*Snapshot
	next  int
	count int
}

// NewMemoryStore creates a store holding up to capacity snapshots.
// A non-positive capacity uses DefaultCapacity.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{ring: make([]*Snapshot, capacity)}
}

func (m *MemoryStore) Save(_ context.Context, s *Snapshot) error {
	if s == nil || s.ID == "" {
		return errors.New("snapshot has no id")
	}
	cp := *s
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ring[m.next] = &cp
	m.next = (m.next + 1) % len(m.ring)
	m.count = min(m.count+1, len(m.ring))
	return nil
}

func (m *MemoryStore) Latest(ctx context.Context) (*Snapshot, error) {
	list, err := m.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return list[0], nil
}

func (m *MemoryStore) List(_ context.Context, limit int) ([]*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := m.count
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*Snapshot, 0, n)
	for i := 1; i <= n; i++ {
		idx := (m.next - i + len(m.ring)) % len(m.ring)
		cp := *m.ring[idx]
		out = append(out, &cp)
	}
	return out, nil
}

// Len returns the number of stored snapshots.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.count
}

func (m *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
