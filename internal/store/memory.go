package store

import (
	"sort"
	"sync"
	"time"

	"github.com/anindilla/fix-my-form/internal/analysis"
)

// MemoryStore is an in-memory ReportStore backed by a mutex-guarded map.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]memoryEntry
}

type memoryEntry struct {
	report  *analysis.Report
	created time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: make(map[string]memoryEntry)}
}

// Put stores a report under the given ID.
func (s *MemoryStore) Put(id string, report *analysis.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[id] = memoryEntry{report: report, created: time.Now()}
	return nil
}

// Get retrieves a report by ID.
func (s *MemoryStore) Get(id string) (*analysis.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	return entry.report, nil
}

// Delete removes a report by ID.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[id]; !ok {
		return ErrNotFound
	}
	delete(s.reports, id)
	return nil
}

// List returns the stored report IDs, newest first.
func (s *MemoryStore) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.reports))
	for id := range s.reports {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool {
		return s.reports[ids[a]].created.After(s.reports[ids[b]].created)
	})
	return ids, nil
}
