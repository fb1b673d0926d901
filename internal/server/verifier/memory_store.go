package verifier

import (
	"context"
	"sync"
	"time"
)

// MemoryCodeStore is an in-process CodeStore. Records past their retention
// are dropped on access and by Sweep.
type MemoryCodeStore struct {
	mu      sync.Mutex
	records map[string]memoryRecord
	now     func() time.Time
}

type memoryRecord struct {
	rec      CodeRecord
	deadline time.Time
}

var _ CodeStore = (*MemoryCodeStore)(nil)

// NewMemoryCodeStore creates an empty store.
func NewMemoryCodeStore() *MemoryCodeStore {
	return &MemoryCodeStore{
		records: make(map[string]memoryRecord),
		now:     time.Now,
	}
}

// Save implements CodeStore.
func (s *MemoryCodeStore) Save(_ context.Context, phone string, rec CodeRecord, retain time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[phone] = memoryRecord{rec: rec, deadline: s.now().Add(retain)}
	return nil
}

// Get implements CodeStore.
func (s *MemoryCodeStore) Get(_ context.Context, phone string) (*CodeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.live(phone)
	if !ok {
		return nil, ErrNoRecord
	}
	rec := r.rec
	return &rec, nil
}

// IncrAttempts implements CodeStore.
func (s *MemoryCodeStore) IncrAttempts(_ context.Context, phone string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.live(phone)
	if !ok {
		return 0, ErrNoRecord
	}
	r.rec.Attempts++
	s.records[phone] = r
	return r.rec.Attempts, nil
}

// Delete implements CodeStore.
func (s *MemoryCodeStore) Delete(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, phone)
	return nil
}

// Sweep drops every record past its retention and returns how many went.
func (s *MemoryCodeStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for phone, r := range s.records {
		if now.After(r.deadline) {
			delete(s.records, phone)
			n++
		}
	}
	return n
}

// Len returns the number of stored records.
func (s *MemoryCodeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// live returns the record for phone unless it is past retention.
// Caller holds s.mu.
func (s *MemoryCodeStore) live(phone string) (memoryRecord, bool) {
	r, ok := s.records[phone]
	if !ok {
		return memoryRecord{}, false
	}
	if s.now().After(r.deadline) {
		delete(s.records, phone)
		return memoryRecord{}, false
	}
	return r, true
}
