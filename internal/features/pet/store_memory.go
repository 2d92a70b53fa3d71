package pet

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JS-Ranker/tester/pkg/pagination"
)

// MemoryStore keeps pets in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	pets map[uuid.UUID]Pet
	now  func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pets: make(map[uuid.UUID]Pet),
		now:  time.Now,
	}
}

func (s *MemoryStore) List(ctx context.Context, ownerID uuid.UUID, filters ListFilters, params pagination.Params) ([]Pet, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keyword := strings.ToLower(filters.Keyword)
	matched := make([]Pet, 0)
	for _, p := range s.pets {
		if p.OwnerID != ownerID {
			continue
		}
		if filters.Species != "" && p.Species != filters.Species {
			continue
		}
		if keyword != "" && !matchesKeyword(p, keyword) {
			continue
		}
		matched = append(matched, p)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Name != matched[j].Name {
			return matched[i].Name < matched[j].Name
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	start, end := params.Bounds(len(matched))
	return matched[start:end], int64(len(matched)), nil
}

func matchesKeyword(p Pet, keyword string) bool {
	if strings.Contains(strings.ToLower(p.Name), keyword) {
		return true
	}
	return p.Breed != nil && strings.Contains(strings.ToLower(*p.Breed), keyword)
}

func (s *MemoryStore) Get(ctx context.Context, ownerID, id uuid.UUID) (Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pets[id]
	if !ok || p.OwnerID != ownerID {
		return Pet{}, ErrPetNotFound
	}
	return p, nil
}

func (s *MemoryStore) Create(ctx context.Context, p *Pet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.EnsureID()
	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	s.pets[p.ID] = *p
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, p *Pet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.pets[p.ID]
	if !ok || current.OwnerID != p.OwnerID {
		return ErrPetNotFound
	}

	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = s.now()
	s.pets[p.ID] = *p
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.pets[id]
	if !ok || current.OwnerID != ownerID {
		return ErrPetNotFound
	}
	delete(s.pets, id)
	return nil
}

// DeleteByOwner removes every pet of ownerID, mirroring the cascade the
// database applies when an owner is deleted.
func (s *MemoryStore) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.pets {
		if p.OwnerID == ownerID {
			delete(s.pets, id)
		}
	}
	return nil
}

func (s *MemoryStore) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, p := range s.pets {
		if p.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}
