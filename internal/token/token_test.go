package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "sentra/pkg/domain"
	dErrors "sentra/pkg/domain-errors"
	"sentra/pkg/testutil"
)

func newTestService() *Service {
	return NewService("test-signing-key", "sentra-test", 5*time.Minute)
}

func TestMintAndVerify(t *testing.T) {
	svc := newTestService()
	userID := testutil.TestIDs.UserID1
	now := time.Now()

	tokenStr, err := svc.Mint(userID, now)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	claims, err := svc.Verify(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.Nonce)
	assert.WithinDuration(t, now.Add(5*time.Minute), claims.ExpiresAt.Time, time.Second)
}

func TestMintRejectsNilUser(t *testing.T) {
	svc := newTestService()

	_, err := svc.Mint(id.UserID{}, time.Now())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestNoncesAreUnique(t *testing.T) {
	svc := newTestService()
	userID := testutil.TestIDs.UserID1
	now := time.Now()

	t1, err := svc.Mint(userID, now)
	require.NoError(t, err)
	t2, err := svc.Mint(userID, now)
	require.NoError(t, err)

	c1, err := svc.Verify(t1)
	require.NoError(t, err)
	c2, err := svc.Verify(t2)
	require.NoError(t, err)
	assert.NotEqual(t, c1.Nonce, c2.Nonce)
}

func TestVerifyRejectsExpired(t *testing.T) {
	svc := newTestService()
	userID := testutil.TestIDs.UserID1

	tokenStr, err := svc.Mint(userID, time.Now().Add(-10*time.Minute))
	require.NoError(t, err)

	_, err = svc.Verify(tokenStr)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	userID := testutil.TestIDs.UserID1

	tokenStr, err := NewService("key-a", "sentra-test", time.Minute).Mint(userID, time.Now())
	require.NoError(t, err)

	_, err = NewService("key-b", "sentra-test", time.Minute).Verify(tokenStr)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestVerifyRejectsEmpty(t *testing.T) {
	_, err := newTestService().Verify("")
	require.Error(t, err)
}

func TestDefaultTTL(t *testing.T) {
	svc := NewService("k", "i", 0)
	assert.Equal(t, 5*time.Minute, svc.TTL())
}
