// Package history records completed solve requests for later inspection.
// Stores are optional: the pipeline itself is stateless, and a store only
// observes finished responses.
package history

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Record is one completed solve request.
type Record struct {
	ID             string          `json:"id"`
	Timestamp      time.Time       `json:"timestamp"`
	Outcome        string          `json:"outcome"`
	ObjectiveValue *float64        `json:"objectiveValue,omitempty"`
	ComputeSeconds float64         `json:"computeSeconds"`
	Description    json.RawMessage `json:"description,omitempty"`
}

// Store persists solve records.
type Store interface {
	// Append adds one record.
	Append(ctx context.Context, rec Record) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)

	// Close releases store resources.
	Close() error
}

// MemoryStore keeps records in memory. Useful for tests and for serving
// a bounded recent-history window without persistence.
type MemoryStore struct {
	mu   sync.RWMutex
	recs []Record
	cap  int
}

// NewMemoryStore creates an in-memory store keeping at most cap records;
// cap <= 0 means unbounded.
func NewMemoryStore(cap int) *MemoryStore {
	return &MemoryStore{cap: cap}
}

// Append implements Store.
func (s *MemoryStore) Append(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	if s.cap > 0 && len(s.recs) > s.cap {
		s.recs = s.recs[len(s.recs)-s.cap:]
	}
	return nil
}

// Recent implements Store.
func (s *MemoryStore) Recent(_ context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.recs)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Record, 0, n)
	for i := len(s.recs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.recs[i])
	}
	return out, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
