package owner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JS-Ranker/tester/pkg/cache"
	"github.com/JS-Ranker/tester/pkg/rut"
)

// CacheTTL bounds how long a cached owner may be served after a write that
// bypassed this process.
const CacheTTL = 5 * time.Minute

// Cached is a read-through cache for RUT lookups, which back every login and
// profile request. Writes go to the wrapped store first and then drop the
// cached entry. Cache failures are logged and fall through to the store.
type Cached struct {
	Store
	cache  cache.Client
	logger *slog.Logger
}

// NewCached wraps store with c.
func NewCached(store Store, c cache.Client, logger *slog.Logger) *Cached {
	return &Cached{Store: store, cache: c, logger: logger}
}

// record is the cached shape. Owner hides its secrets from JSON, so they are
// copied explicitly.
type record struct {
	Owner
	PasswordHash string  `json:"passwordHash"`
	RefreshToken *string `json:"refreshToken,omitempty"`
}

func cacheKey(id rut.RUT) string {
	return "owner:rut:" + id.Normalized()
}

func (c *Cached) GetByRUT(ctx context.Context, id rut.RUT) (Owner, error) {
	key := cacheKey(id)

	var rec record
	err := cache.GetJSON(ctx, c.cache, key, &rec)
	if err == nil {
		rec.Owner.PasswordHash = rec.PasswordHash
		rec.Owner.RefreshToken = rec.RefreshToken
		return rec.Owner, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		c.logger.Warn("owner cache read failed", slog.String("error", err.Error()))
	}

	o, err := c.Store.GetByRUT(ctx, id)
	if err != nil {
		return Owner{}, err
	}

	rec = record{Owner: o, PasswordHash: o.PasswordHash, RefreshToken: o.RefreshToken}
	if err := cache.SetJSON(ctx, c.cache, key, rec, CacheTTL); err != nil {
		c.logger.Warn("owner cache write failed", slog.String("error", err.Error()))
	}
	return o, nil
}

func (c *Cached) Update(ctx context.Context, o *Owner) error {
	if err := c.Store.Update(ctx, o); err != nil {
		return err
	}
	c.invalidate(ctx, o.RUT)
	return nil
}

func (c *Cached) SetRefreshToken(ctx context.Context, id uuid.UUID, token *string) error {
	if err := c.Store.SetRefreshToken(ctx, id, token); err != nil {
		return err
	}
	c.invalidateID(ctx, id)
	return nil
}

func (c *Cached) Delete(ctx context.Context, id uuid.UUID) error {
	o, err := c.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := c.Store.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, o.RUT)
	return nil
}

func (c *Cached) invalidateID(ctx context.Context, id uuid.UUID) {
	o, err := c.Store.Get(ctx, id)
	if err != nil {
		c.logger.Warn("owner cache invalidation lookup failed", slog.String("error", err.Error()))
		return
	}
	c.invalidate(ctx, o.RUT)
}

func (c *Cached) invalidate(ctx context.Context, id rut.RUT) {
	if err := c.cache.Delete(ctx, cacheKey(id)); err != nil {
		c.logger.Warn("owner cache invalidation failed", slog.String("error", err.Error()))
	}
}
