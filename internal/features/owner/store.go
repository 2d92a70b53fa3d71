package owner

import (
	"context"

	"github.com/google/uuid"

	"github.com/JS-Ranker/tester/pkg/rut"
)

// Store persists owners. Implementations return ErrOwnerNotFound for unknown
// owners and ErrRUTTaken when a RUT is registered twice.
type Store interface {
	Create(ctx context.Context, o *Owner) error
	Get(ctx context.Context, id uuid.UUID) (Owner, error)
	GetByRUT(ctx context.Context, id rut.RUT) (Owner, error)
	// Update writes the profile fields, password hash and active flag.
	Update(ctx context.Context, o *Owner) error
	SetRefreshToken(ctx context.Context, id uuid.UUID, token *string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
