package rut

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("accepts every display variant", func(t *testing.T) {
		for _, input := range []string{"12.345.678-5", "12345678-5", "123456785", "  12.345.678-5 "} {
			r, err := Parse(input)
			require.NoError(t, err, input)
			assert.Equal(t, "12.345.678-5", r.String())
			assert.Equal(t, "123456785", r.Normalized())
			assert.Equal(t, "12345678", r.Body())
			assert.Equal(t, "5", r.Verifier())
		}
	})

	t.Run("upper-cases K", func(t *testing.T) {
		r, err := Parse("24.965.101-k")
		require.NoError(t, err)
		assert.Equal(t, "24965101K", r.Normalized())
		assert.Equal(t, "24.965.101-K", r.String())
	})

	t.Run("strips leading zeros", func(t *testing.T) {
		r, err := Parse("012.345.678-5")
		require.NoError(t, err)
		assert.Equal(t, MustParse("12.345.678-5"), r)
	})

	t.Run("rejects zero padded short identifiers", func(t *testing.T) {
		_, err := Parse("0000000-0")
		assert.ErrorIs(t, err, ErrTooShort)
	})

	t.Run("bounds the canonical length", func(t *testing.T) {
		r, err := Parse("12.345.678.901-8")
		require.NoError(t, err)
		assert.Len(t, r.Normalized(), MaxLength)

		_, err = Parse("1.234.567.890.123-K")
		assert.ErrorIs(t, err, ErrTooLong)

		r, err = Parse("00012.345.678-5")
		require.NoError(t, err, "padding does not count toward the limit")
		assert.Equal(t, "123456785", r.Normalized())
	})

	t.Run("error classes", func(t *testing.T) {
		_, err := Parse("   ")
		assert.ErrorIs(t, err, ErrEmpty)

		_, err = Parse("1234-5")
		assert.ErrorIs(t, err, ErrTooShort)

		_, err = Parse("12345678-9")
		assert.ErrorIs(t, err, ErrInvalid)

		_, err = Parse("12a45678-5")
		assert.ErrorIs(t, err, ErrInvalid)
	})
}

func TestRUT_ZeroValue(t *testing.T) {
	var r RUT
	assert.True(t, r.IsZero())
	assert.Equal(t, "", r.String())
	assert.Equal(t, "", r.Normalized())
	assert.Equal(t, "", r.Verifier())

	v, err := r.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestRUT_JSON(t *testing.T) {
	type payload struct {
		RUT RUT `json:"rut"`
	}

	data, err := json.Marshal(payload{RUT: MustParse("123456785")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"rut":"12.345.678-5"}`, string(data))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"rut":"24965101k"}`), &decoded))
	assert.Equal(t, "24.965.101-K", decoded.RUT.String())

	err = json.Unmarshal([]byte(`{"rut":"12345678-9"}`), &decoded)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestRUT_SQL(t *testing.T) {
	r := MustParse("24.965.101-K")

	v, err := r.Value()
	require.NoError(t, err)
	assert.Equal(t, "24965101K", v)

	var scanned RUT
	require.NoError(t, scanned.Scan("24965101K"))
	assert.Equal(t, r, scanned)

	require.NoError(t, scanned.Scan([]byte("123456785")))
	assert.Equal(t, "12.345.678-5", scanned.String())

	require.NoError(t, scanned.Scan(nil))
	assert.True(t, scanned.IsZero())

	assert.Error(t, scanned.Scan(42))
	assert.Error(t, scanned.Scan("123456789"))
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { MustParse("12345678-9") })
}
