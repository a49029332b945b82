package shot

import "sync"

// Store is the explicit shot registry keyed by uid. It has no implicit
// eviction: records stay until a caller removes them or clears the store.
type Store struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string]*Record)}
}

// Put registers a record, replacing any previous record with the same uid.
func (s *Store) Put(rec *Record) {
	if rec == nil || rec.UID == "" {
		return
	}
	s.mu.Lock()
	s.records[rec.UID] = rec
	s.mu.Unlock()
}

// Get returns the record for uid, if present.
func (s *Store) Get(uid string) (*Record, bool) {
	s.mu.RLock()
	rec, ok := s.records[uid]
	s.mu.RUnlock()
	return rec, ok
}

// Remove deletes the record for uid and reports whether it existed.
func (s *Store) Remove(uid string) bool {
	s.mu.Lock()
	_, ok := s.records[uid]
	delete(s.records, uid)
	s.mu.Unlock()
	return ok
}

// Clear drops every record.
func (s *Store) Clear() {
	s.mu.Lock()
	s.records = make(map[string]*Record)
	s.mu.Unlock()
}

// Len returns the number of registered records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
