// Package logs holds the bounded in-memory log history and the derived
// filtered view over it.
package logs

import (
	"github.com/adeane/devinsight/internal/constants"
	"github.com/adeane/devinsight/internal/domain"
)

// Store is a fixed-capacity, append-only sequence of log entries. Once the
// capacity is reached the oldest entries are evicted in batches, which
// amortizes the shift cost instead of paying it on every append.
//
// The store has exactly one mutator (the UI loop) and is deliberately
// unsynchronized. Indices become stale whenever an eviction occurs, so
// callers must not hold them across appends; the filtered view is rebuilt
// from scratch for this reason.
type Store struct {
	entries  []domain.LogEntry
	capacity int
	evict    int
}

// NewStore creates a store with the given capacity and eviction batch size
func NewStore(capacity, evict int) *Store {
	if capacity <= 0 {
		capacity = constants.StoreCapacity
	}
	if evict <= 0 || evict > capacity {
		evict = capacity / 10
		if evict == 0 {
			evict = 1
		}
	}
	return &Store{
		entries:  make([]domain.LogEntry, 0, capacity),
		capacity: capacity,
		evict:    evict,
	}
}

// Append adds an entry, evicting the oldest batch first if the store is full.
// After any append len() <= capacity holds.
func (s *Store) Append(entry domain.LogEntry) {
	if len(s.entries) >= s.capacity {
		n := copy(s.entries, s.entries[s.evict:])
		s.entries = s.entries[:n]
	}
	s.entries = append(s.entries, entry)
}

// Get returns the entry at index i
func (s *Store) Get(i int) (domain.LogEntry, bool) {
	if i < 0 || i >= len(s.entries) {
		return domain.LogEntry{}, false
	}
	return s.entries[i], true
}

// Len returns the current number of entries
func (s *Store) Len() int {
	return len(s.entries)
}

// Capacity returns the hard cap on stored entries
func (s *Store) Capacity() int {
	return s.capacity
}

// Snapshot returns the underlying entries, oldest first. The slice is only
// valid until the next Append.
func (s *Store) Snapshot() []domain.LogEntry {
	return s.entries
}

// Clear removes all entries
func (s *Store) Clear() {
	s.entries = s.entries[:0]
}
