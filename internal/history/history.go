package history

import (
	"sync"

	"cliphist/pkg/types"
)

// DefaultLimit is the history bound used when no configuration exists.
const DefaultLimit = 100

// Store is the bounded, deduplicated, recency-ordered clipboard history.
// One RWMutex guards the entries and the limit jointly: snapshots may run
// concurrently, mutations are exclusive, and no reader ever observes a state
// with more entries than the limit allows.
type Store struct {
	mu      sync.RWMutex
	entries []types.Entry
	limit   int
}

// New creates an empty store. limit must be >= 1; the configuration boundary
// clamps user input before it gets here.
func New(limit int) *Store {
	if limit < 1 {
		panic("history: limit must be >= 1")
	}
	return &Store{limit: limit}
}

// NewFromEntries seeds a store with persisted entries, most recent first.
// Duplicate texts keep their first (most recent) occurrence and anything
// beyond the limit is dropped from the tail.
func NewFromEntries(limit int, entries []types.Entry) *Store {
	s := New(limit)
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.Text]; dup {
			continue
		}
		seen[e.Text] = struct{}{}
		s.entries = append(s.entries, e)
	}
	s.truncate()
	return s
}

// Insert prepends e as the most recent entry. Any existing entry with equal
// text is removed first, so the new timestamp wins and the old position is
// discarded. The tail is then truncated to the limit.
func (s *Store) Insert(e types.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(e.Text)
	s.entries = append(s.entries, types.Entry{})
	copy(s.entries[1:], s.entries)
	s.entries[0] = e
	s.truncate()
}

// Remove deletes the entry with equal text. Absent text is a no-op.
func (s *Store) Remove(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(text)
}

// SetLimit changes the bound, truncating the tail immediately if the history
// is now over it. limit must be >= 1.
func (s *Store) SetLimit(limit int) {
	if limit < 1 {
		panic("history: limit must be >= 1")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limit = limit
	s.truncate()
}

// Limit returns the current bound.
func (s *Store) Limit() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limit
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Snapshot returns a read-consistent copy of the history, most recent first.
func (s *Store) Snapshot() []types.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// removeLocked deletes the entry with equal text. At most one exists.
func (s *Store) removeLocked(text string) {
	for i, e := range s.entries {
		if e.Text == text {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

func (s *Store) truncate() {
	if len(s.entries) > s.limit {
		s.entries = s.entries[:s.limit]
	}
}
