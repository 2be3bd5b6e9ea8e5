package index

import "sync"

// Store owns the current index snapshot. Reindexing builds a complete new
// snapshot and swaps it in wholesale; readers always observe either the old
// or the new index, never a partial one.
type Store struct {
	mu      sync.RWMutex
	entries []FileEntry
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Replace swaps in a new snapshot, discarding the prior one.
func (s *Store) Replace(entries []FileEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
}

// Snapshot returns the current snapshot. Callers must treat the returned
// slice as read-only.
func (s *Store) Snapshot() []FileEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries
}

// Len returns the number of indexed files.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Lookup returns the entry whose normalized path equals the given path.
func (s *Store) Lookup(path string) (FileEntry, bool) {
	norm := NormPath(path)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.entries {
		if NormPath(s.entries[i].Path) == norm {
			return s.entries[i], true
		}
	}
	return FileEntry{}, false
}
