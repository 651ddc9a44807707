package store

import (
	"sync"

	"github.com/itdojp/cspx/internal/cspx/lts"
)

// HybridStore keeps up to maxMemoryStates states in a plain in-memory hash
// set and spills every state beyond that bound to a DiskStore rooted at
// dir. Contains checks the memory layer first (the common case while the
// bound has not been hit) and falls through to the disk layer only on a
// memory miss, so a run that never reaches the bound writes no state
// records to disk; Open still creates the disk layer's lock, log and index
// files under dir.
type HybridStore struct {
	mu              sync.RWMutex
	memSet          map[string]struct{}
	disk            *DiskStore
	maxMemoryStates int
	metrics         Metrics
	open            bool
}

// NewHybridStore constructs a HybridStore. maxMemoryStates bounds the
// in-memory layer; once it is reached, subsequent new states spill to disk
// under dir.
func NewHybridStore(dir string, maxMemoryStates int, metrics Metrics) *HybridStore {
	if metrics == nil {
		metrics = NullMetrics{}
	}
	if maxMemoryStates <= 0 {
		maxMemoryStates = 1
	}
	return &HybridStore{
		disk:            NewDiskStore(dir, metrics),
		maxMemoryStates: maxMemoryStates,
		metrics:         metrics,
	}
}

func (h *HybridStore) Open() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.open {
		return ErrAlreadyOpenErr
	}
	h.memSet = make(map[string]struct{})
	if err := h.disk.Open(); err != nil {
		return err
	}
	h.open = true
	return nil
}

func (h *HybridStore) Contains(s lts.State) (bool, error) {
	h.mu.RLock()
	_, inMem := h.memSet[string(s.Bytes())]
	h.mu.RUnlock()
	if inMem {
		h.metrics.RecordContains(true)
		return true, nil
	}
	ok, err := h.disk.containsNoMetrics(s)
	h.metrics.RecordContains(ok)
	return ok, err
}

func (h *HybridStore) Insert(s lts.State) (bool, error) {
	key := string(s.Bytes())

	h.mu.Lock()
	if _, exists := h.memSet[key]; exists {
		h.mu.Unlock()
		h.metrics.RecordInsert(false)
		return false, nil
	}
	belowBound := len(h.memSet) < h.maxMemoryStates
	if belowBound {
		h.memSet[key] = struct{}{}
	}
	h.mu.Unlock()

	if belowBound {
		h.metrics.RecordInsert(true)
		h.metrics.RecordBytes(len(key))
		return true, nil
	}

	// Memory layer is full: this state's home is the disk layer. It may
	// already be there from a prior spilled insert of the same state.
	isNew, err := h.disk.insertNoMetrics(s)
	if err != nil {
		return false, err
	}
	h.metrics.RecordInsert(isNew)
	if isNew {
		h.metrics.RecordBytes(len(key))
	}
	return isNew, nil
}

func (h *HybridStore) Len() int {
	h.mu.RLock()
	n := len(h.memSet)
	h.mu.RUnlock()
	return n + h.disk.Len()
}

func (h *HybridStore) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.open {
		return nil
	}
	h.open = false
	h.memSet = nil
	return h.disk.Close()
}

var _ Store = (*HybridStore)(nil)
