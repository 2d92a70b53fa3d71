package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssuer() *Issuer {
	return NewIssuer("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestPairAndVerify(t *testing.T) {
	iss := newIssuer()
	ownerID := uuid.New()

	pair, err := iss.Pair(ownerID)
	require.NoError(t, err)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := iss.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, ownerID, claims.OwnerID)
	assert.Equal(t, KindAccess, claims.Kind)

	claims, err = iss.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, ownerID, claims.OwnerID)
}

func TestVerify_RejectsWrongKind(t *testing.T) {
	iss := newIssuer()
	pair, err := iss.Pair(uuid.New())
	require.NoError(t, err)

	_, err = iss.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = iss.VerifyRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	iss := newIssuer()
	start := time.Now()
	iss.now = func() time.Time { return start }

	pair, err := iss.Pair(uuid.New())
	require.NoError(t, err)

	iss.now = func() time.Time { return start.Add(16 * time.Minute) }
	_, err = iss.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = iss.VerifyRefresh(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestVerify_Garbage(t *testing.T) {
	iss := newIssuer()

	_, err := iss.VerifyAccess("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewIssuer("different", "different", time.Minute, time.Minute)
	pair, err := other.Pair(uuid.New())
	require.NoError(t, err)
	_, err = iss.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
