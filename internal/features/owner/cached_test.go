package owner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JS-Ranker/tester/pkg/cache"
	"github.com/JS-Ranker/tester/pkg/logger"
	"github.com/JS-Ranker/tester/pkg/rut"
)

type countingStore struct {
	*MemoryStore
	byRUTCalls int
}

func (s *countingStore) GetByRUT(ctx context.Context, id rut.RUT) (Owner, error) {
	s.byRUTCalls++
	return s.MemoryStore.GetByRUT(ctx, id)
}

func TestCached_ReadThroughAndInvalidate(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{MemoryStore: NewMemoryStore()}
	mem := cache.NewMemoryCache()
	store := NewCached(inner, mem, logger.Discard())

	created, err := Create(ctx, store, validInput(), 6)
	require.NoError(t, err)

	id := rut.MustParse("123456785")
	first, err := store.GetByRUT(ctx, id)
	require.NoError(t, err)
	second, err := store.GetByRUT(ctx, rut.MustParse("12.345.678-5"))
	require.NoError(t, err)
	assert.Equal(t, 1, inner.byRUTCalls, "second lookup is served from cache")

	assert.Equal(t, created.ID, second.ID)
	assert.Equal(t, first.PasswordHash, second.PasswordHash, "hash survives the cache round trip")
	assert.True(t, second.ComparePassword("secret1"))

	_, err = mem.Get(ctx, "owner:rut:123456785")
	require.NoError(t, err)

	_, err = Update(ctx, store, second, UpdateInput{FullName: strPtr("Ana Soto")}, 6)
	require.NoError(t, err)
	_, err = mem.Get(ctx, "owner:rut:123456785")
	assert.ErrorIs(t, err, cache.ErrMiss)

	third, err := store.GetByRUT(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana Soto", third.FullName)
	assert.Equal(t, 2, inner.byRUTCalls)

	token := "digest"
	require.NoError(t, store.SetRefreshToken(ctx, created.ID, &token))
	fourth, err := store.GetByRUT(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, fourth.RefreshToken)
	assert.Equal(t, "digest", *fourth.RefreshToken)

	require.NoError(t, store.Delete(ctx, created.ID))
	_, err = store.GetByRUT(ctx, id)
	assert.ErrorIs(t, err, ErrOwnerNotFound)
}

func TestCached_MissingOwnerIsNotCached(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemoryCache()
	store := NewCached(NewMemoryStore(), mem, logger.Discard())

	_, err := store.GetByRUT(ctx, rut.MustParse("11.111.111-1"))
	assert.ErrorIs(t, err, ErrOwnerNotFound)

	_, err = mem.Get(ctx, "owner:rut:111111111")
	assert.ErrorIs(t, err, cache.ErrMiss)
}
