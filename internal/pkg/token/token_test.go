package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestService_IssueAndVerifyAccess(t *testing.T) {
	svc := New("test-secret", 15*time.Minute)

	signed, err := svc.IssueAccess(42)
	assert.NoError(t, err)
	assert.NotEmpty(t, signed)

	claims, err := svc.Verify(signed, TypeAccess)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, TypeAccess, claims.TokenType)
}

func TestService_IssueAndVerifyRefresh(t *testing.T) {
	svc := New("test-secret", 15*time.Minute)

	signed, err := svc.IssueRefresh(7, 7*24*time.Hour)
	assert.NoError(t, err)

	claims, err := svc.Verify(signed, TypeRefresh)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, TypeRefresh, claims.TokenType)
}

func TestService_Verify_WrongType(t *testing.T) {
	svc := New("test-secret", 15*time.Minute)

	access, _ := svc.IssueAccess(1)
	refresh, _ := svc.IssueRefresh(1, time.Hour)

	_, err := svc.Verify(access, TypeRefresh)
	assert.ErrorIs(t, err, ErrTokenWrongType)

	_, err = svc.Verify(refresh, TypeAccess)
	assert.ErrorIs(t, err, ErrTokenWrongType)
}

func TestService_Verify_Expired(t *testing.T) {
	svc := New("test-secret", -time.Minute)

	signed, err := svc.IssueAccess(1)
	assert.NoError(t, err)

	_, err = svc.Verify(signed, TypeAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestService_Verify_BadSignature(t *testing.T) {
	svc := New("test-secret", 15*time.Minute)
	other := New("another-secret", 15*time.Minute)

	signed, _ := other.IssueAccess(1)

	_, err := svc.Verify(signed, TypeAccess)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestService_Verify_Malformed(t *testing.T) {
	svc := New("test-secret", 15*time.Minute)

	_, err := svc.Verify("not-a-jwt", TypeAccess)
	assert.ErrorIs(t, err, ErrTokenMalformed)

	_, err = svc.Verify("", TypeAccess)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestService_IssuePair(t *testing.T) {
	svc := New("test-secret", 15*time.Minute)

	pair, err := svc.IssuePair(9, 7*24*time.Hour)
	assert.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	_, err = svc.Verify(pair.AccessToken, TypeAccess)
	assert.NoError(t, err)
	_, err = svc.Verify(pair.RefreshToken, TypeRefresh)
	assert.NoError(t, err)
}

// Rotation depends on successive mints never colliding, even inside the
// same clock second.
func TestService_Issue_UniqueWithinSameSecond(t *testing.T) {
	svc := New("test-secret", 15*time.Minute)

	a, err := svc.IssueRefresh(1, time.Hour)
	assert.NoError(t, err)
	b, err := svc.IssueRefresh(1, time.Hour)
	assert.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestHash_Deterministic(t *testing.T) {
	assert.Equal(t, Hash("abc"), Hash("abc"))
	assert.NotEqual(t, Hash("abc"), Hash("abd"))
	assert.Len(t, Hash("abc"), 64)
}
