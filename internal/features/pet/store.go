package pet

import (
	"context"

	"github.com/google/uuid"

	"github.com/JS-Ranker/tester/pkg/pagination"
	"github.com/JS-Ranker/tester/pkg/types"
)

// ListFilters narrows a pet listing. Zero values match everything.
type ListFilters struct {
	Species types.Species
	Keyword string
}

// Store persists pets. Every lookup is scoped to the owning owner so a pet
// belonging to someone else reads as ErrPetNotFound.
type Store interface {
	List(ctx context.Context, ownerID uuid.UUID, filters ListFilters, params pagination.Params) ([]Pet, int64, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (Pet, error)
	Create(ctx context.Context, p *Pet) error
	Update(ctx context.Context, p *Pet) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}
