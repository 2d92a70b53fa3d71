package owner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JS-Ranker/tester/pkg/rut"
)

func strPtr(s string) *string { return &s }

func validInput() CreateInput {
	return CreateInput{
		RUT:      "12.345.678-5",
		FullName: "  Ana   María Pérez ",
		Email:    strPtr(" Ana@Example.COM "),
		Phone:    strPtr("+56 9 1234 5678"),
		Password: "secret1",
	}
}

func TestCreate(t *testing.T) {
	store := NewMemoryStore()

	o, err := Create(context.Background(), store, validInput(), 6)
	require.NoError(t, err)

	assert.Equal(t, rut.MustParse("123456785"), o.RUT)
	assert.Equal(t, "Ana María Pérez", o.FullName)
	assert.Equal(t, "ana@example.com", *o.Email)
	assert.True(t, o.Active)
	assert.NotEqual(t, "secret1", o.PasswordHash)
	assert.True(t, o.ComparePassword("secret1"))
	assert.False(t, o.ComparePassword("secret2"))

	stored, err := store.GetByRUT(context.Background(), rut.MustParse("12345678-5"))
	require.NoError(t, err)
	assert.Equal(t, o.ID, stored.ID)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateInput)
		want   error
	}{
		{"wrong check digit", func(in *CreateInput) { in.RUT = "12.345.678-9" }, ErrInvalidRUT},
		{"short rut", func(in *CreateInput) { in.RUT = "1-9" }, ErrInvalidRUT},
		{"empty rut", func(in *CreateInput) { in.RUT = "" }, ErrInvalidRUT},
		{"rut wider than the column", func(in *CreateInput) { in.RUT = "1234567890123-K" }, rut.ErrTooLong},
		{"short name", func(in *CreateInput) { in.FullName = " A " }, ErrInvalidName},
		{"bad email", func(in *CreateInput) { in.Email = strPtr("ana@") }, ErrInvalidEmail},
		{"bad phone", func(in *CreateInput) { in.Phone = strPtr("call me") }, ErrInvalidPhone},
		{"short password", func(in *CreateInput) { in.Password = "12345" }, ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := Create(context.Background(), NewMemoryStore(), in, 6)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreate_OptionalContactFields(t *testing.T) {
	in := validInput()
	in.Email = strPtr("   ")
	in.Phone = nil

	o, err := Create(context.Background(), NewMemoryStore(), in, 6)
	require.NoError(t, err)
	assert.Nil(t, o.Email)
	assert.Nil(t, o.Phone)
}

func TestCreate_DuplicateRUTInAnyFormat(t *testing.T) {
	store := NewMemoryStore()
	_, err := Create(context.Background(), store, validInput(), 6)
	require.NoError(t, err)

	in := validInput()
	in.RUT = "012345678-5"
	_, err = Create(context.Background(), store, in, 6)
	assert.ErrorIs(t, err, ErrRUTTaken)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	o, err := Create(ctx, store, validInput(), 6)
	require.NoError(t, err)

	_, err = Update(ctx, store, o, UpdateInput{}, 6)
	assert.ErrorIs(t, err, ErrNothingToUpdate)

	updated, err := Update(ctx, store, o, UpdateInput{FullName: strPtr("Ana Pérez"), Email: strPtr("")}, 6)
	require.NoError(t, err)
	assert.Equal(t, "Ana Pérez", updated.FullName)
	assert.Nil(t, updated.Email)

	_, err = Update(ctx, store, updated, UpdateInput{Password: strPtr("newsecret")}, 6)
	assert.ErrorIs(t, err, ErrCurrentPasswordReq)

	_, err = Update(ctx, store, updated, UpdateInput{Password: strPtr("newsecret"), CurrentPassword: strPtr("wrong")}, 6)
	assert.ErrorIs(t, err, ErrWrongPassword)

	updated, err = Update(ctx, store, updated, UpdateInput{Password: strPtr("newsecret"), CurrentPassword: strPtr("secret1")}, 6)
	require.NoError(t, err)

	stored, err := store.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, stored.ComparePassword("newsecret"))
	assert.Equal(t, o.RUT, stored.RUT, "RUT is immutable")
}

func TestCreate_LongestRUTFitsColumn(t *testing.T) {
	store := NewMemoryStore()
	in := validInput()
	in.RUT = "12.345.678.901-8"

	o, err := Create(context.Background(), store, in, 6)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(o.RUT.Normalized()), 12)

	in.RUT = "1234567890123-K"
	_, err = Create(context.Background(), store, in, 6)
	assert.ErrorIs(t, err, ErrInvalidRUT)
	assert.ErrorIs(t, err, rut.ErrTooLong)
}

func TestUpdate_PasswordChangeRevokesRefreshToken(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	o, err := Create(ctx, store, validInput(), 6)
	require.NoError(t, err)
	require.NoError(t, store.SetRefreshToken(ctx, o.ID, strPtr("digest")))

	current, err := store.Get(ctx, o.ID)
	require.NoError(t, err)

	_, err = Update(ctx, store, current, UpdateInput{FullName: strPtr("Ana Pérez")}, 6)
	require.NoError(t, err)
	stored, err := store.Get(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RefreshToken, "profile edits keep the session")

	updated, err := Update(ctx, store, stored, UpdateInput{Password: strPtr("newsecret"), CurrentPassword: strPtr("secret1")}, 6)
	require.NoError(t, err)
	assert.Nil(t, updated.RefreshToken)

	stored, err = store.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.RefreshToken)
}
