package owner

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JS-Ranker/tester/pkg/rut"
)

// MemoryStore keeps owners in process memory. Used for local development
// and tests; data is lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	owners map[uuid.UUID]Owner
	byRUT  map[string]uuid.UUID
	now    func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		owners: make(map[uuid.UUID]Owner),
		byRUT:  make(map[string]uuid.UUID),
		now:    time.Now,
	}
}

func (s *MemoryStore) Create(ctx context.Context, o *Owner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := o.RUT.Normalized()
	if _, taken := s.byRUT[key]; taken {
		return ErrRUTTaken
	}

	o.EnsureID()
	now := s.now()
	o.CreatedAt, o.UpdatedAt = now, now

	s.owners[o.ID] = *o
	s.byRUT[key] = o.ID
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (Owner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.owners[id]
	if !ok {
		return Owner{}, ErrOwnerNotFound
	}
	return o, nil
}

func (s *MemoryStore) GetByRUT(ctx context.Context, id rut.RUT) (Owner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ownerID, ok := s.byRUT[id.Normalized()]
	if !ok {
		return Owner{}, ErrOwnerNotFound
	}
	return s.owners[ownerID], nil
}

func (s *MemoryStore) Update(ctx context.Context, o *Owner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.owners[o.ID]
	if !ok {
		return ErrOwnerNotFound
	}

	current.FullName = o.FullName
	current.Email = o.Email
	current.Phone = o.Phone
	current.PasswordHash = o.PasswordHash
	current.Active = o.Active
	current.UpdatedAt = s.now()

	s.owners[o.ID] = current
	o.UpdatedAt = current.UpdatedAt
	return nil
}

func (s *MemoryStore) SetRefreshToken(ctx context.Context, id uuid.UUID, token *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.owners[id]
	if !ok {
		return ErrOwnerNotFound
	}
	current.RefreshToken = token
	s.owners[id] = current
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.owners[id]
	if !ok {
		return ErrOwnerNotFound
	}
	delete(s.byRUT, current.RUT.Normalized())
	delete(s.owners, id)
	return nil
}
