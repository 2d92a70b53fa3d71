package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStore = errors.New("store exploded")

func TestAppError_Chain(t *testing.T) {
	err := NotFound("Owner not found", errStore)

	assert.Equal(t, "Owner not found: store exploded", err.Error())
	assert.Equal(t, "Owner not found", err.Message())
	assert.Equal(t, http.StatusNotFound, err.StatusCode())
	assert.ErrorIs(t, err, errStore)

	wrapped := fmt.Errorf("handler: %w", err)
	assert.True(t, Is(wrapped, ErrNotFound))
	assert.False(t, Is(wrapped, ErrConflict))
	assert.False(t, Is(errStore, ErrNotFound))
}

func TestValidation_CarriesFields(t *testing.T) {
	err := Validation("Invalid payload", map[string]string{"rut": "must be a valid RUT"}, nil)

	assert.Equal(t, http.StatusBadRequest, err.StatusCode())
	assert.Equal(t, ErrValidation, err.Code())
	assert.Equal(t, "must be a valid RUT", err.Fields()["rut"])
	assert.Equal(t, "Invalid payload", err.Error())
}

func TestWithFields_DoesNotMutateOriginal(t *testing.T) {
	base := New("bad", http.StatusBadRequest, ErrValidation, nil)
	withFields := base.WithFields(map[string]string{"name": "is required"})

	assert.Nil(t, base.Fields())
	assert.Len(t, withFields.Fields(), 1)
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "x", http.StatusInternalServerError, ErrInternal))

	original := Conflict("RUT already registered", nil)
	got := Wrap(fmt.Errorf("ctx: %w", original), "other", http.StatusInternalServerError, ErrInternal)
	assert.Same(t, original, got)

	plain := Wrap(errStore, "Internal server error", http.StatusInternalServerError, ErrInternal)
	require.NotNil(t, plain)
	assert.Equal(t, ErrInternal, plain.Code())
	assert.ErrorIs(t, plain, errStore)
}

func TestStatusHelpers(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("x", nil).StatusCode())
	assert.Equal(t, http.StatusForbidden, Forbidden("x", nil).StatusCode())
	assert.Equal(t, http.StatusTooManyRequests, TooManyRequests("x", nil).StatusCode())
	assert.Equal(t, http.StatusConflict, Conflict("x", nil).StatusCode())
}
