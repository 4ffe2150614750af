package visitorstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"visitor-pass/models/visitor"
	"visitor-pass/utils"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store with the same conditional-update
// semantics as the Postgres one. Tests use it; it also works as a standalone
// backend for local experiments.
type MemoryStore struct {
	// Now supplies creation timestamps; tests override it to control record
	// age. Defaults to time.Now.
	Now func() time.Time

	mu      sync.Mutex
	records map[string]*visitor.Visitor
	nextID  uint
}

// NewMemoryStore creates an empty in-memory visitor store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Now:     time.Now,
		records: make(map[string]*visitor.Visitor),
	}
}

func (s *MemoryStore) Create(_ context.Context, v *visitor.Visitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	v.ID = s.nextID
	v.UID = uuid.NewString()
	v.Status = visitor.StatusPending
	v.IssuedAt = s.Now()

	for attempt := 0; attempt < passNumberRetries; attempt++ {
		v.PassNumber = utils.GeneratePassNumber()
		if !s.passNumberTaken(v.PassNumber) {
			break
		}
	}

	stored := *v
	s.records[v.UID] = &stored
	return nil
}

func (s *MemoryStore) passNumberTaken(passNumber string) bool {
	for _, r := range s.records {
		if r.PassNumber == passNumber {
			return true
		}
	}
	return false
}

func (s *MemoryStore) GetByUID(_ context.Context, uid string) (*visitor.Visitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[uid]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (s *MemoryStore) ListAll(_ context.Context) ([]visitor.Visitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	visitors := make([]visitor.Visitor, 0, len(s.records))
	for _, r := range s.records {
		visitors = append(visitors, *r)
	}
	sort.Slice(visitors, func(i, j int) bool {
		return visitors[i].IssuedAt.After(visitors[j].IssuedAt)
	})
	return visitors, nil
}

func (s *MemoryStore) ListByStatus(ctx context.Context, status visitor.Status) ([]visitor.Visitor, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]visitor.Visitor, 0, len(all))
	for _, v := range all {
		if v.Status == status {
			filtered = append(filtered, v)
		}
	}
	return filtered, nil
}

func (s *MemoryStore) SetStatusIfPending(_ context.Context, uid string, to visitor.Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[uid]
	if !ok {
		return false, ErrNotFound
	}
	if r.Status != visitor.StatusPending {
		return false, nil
	}
	r.Status = to
	r.UpdatedAt = s.Now()
	return true, nil
}

func (s *MemoryStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for uid, r := range s.records {
		if r.IssuedAt.Before(cutoff) {
			delete(s.records, uid)
			removed++
		}
	}
	return removed, nil
}
