package store

import (
	"sync"

	"github.com/itdojp/cspx/internal/cspx/lts"
)

// MemoryStore is a hash-set backed Store: fastest backend, bounded by
// process memory. Runs that risk exhausting it rely on the explorer's
// heap polling to surface an out_of_memory outcome before the process
// itself is killed by the OS.
type MemoryStore struct {
	mu      sync.RWMutex
	set     map[string]struct{}
	metrics Metrics
	open    bool
}

// NewMemoryStore constructs a MemoryStore. A nil metrics is replaced with
// NullMetrics.
func NewMemoryStore(metrics Metrics) *MemoryStore {
	if metrics == nil {
		metrics = NullMetrics{}
	}
	return &MemoryStore{metrics: metrics}
}

func (m *MemoryStore) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.open {
		return ErrAlreadyOpenErr
	}
	m.set = make(map[string]struct{})
	m.open = true
	return nil
}

func (m *MemoryStore) Contains(s lts.State) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.set[string(s.Bytes())]
	m.metrics.RecordContains(ok)
	return ok, nil
}

func (m *MemoryStore) Insert(s lts.State) (bool, error) {
	key := string(s.Bytes())
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.set[key]; exists {
		m.metrics.RecordInsert(false)
		return false, nil
	}
	m.set[key] = struct{}{}
	m.metrics.RecordInsert(true)
	m.metrics.RecordBytes(len(key))
	return true, nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.set)
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	m.set = nil
	return nil
}

var _ Store = (*MemoryStore)(nil)
