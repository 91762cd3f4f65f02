package token_test

import (
	"testing"
	"time"

	apperrors "github.com/jrsteele09/go-signal-server/internal/errors"
	"github.com/jrsteele09/go-signal-server/token"
	"github.com/stretchr/testify/require"
)

const (
	secretStr  = "1234"
	testUserID = "user-1"
)

func TestManager_IssueAndVerify(t *testing.T) {
	now := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	m := token.New(token.NewHMACSigner(secretStr), token.WithNowFunc(func() time.Time { return now }))

	raw, err := m.Issue(testUserID)
	require.NoError(t, err)

	userID, err := m.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, testUserID, userID)

	t.Run("tokens are unique per issue", func(t *testing.T) {
		other, err := m.Issue(testUserID)
		require.NoError(t, err)
		require.NotEqual(t, raw, other)
	})

	t.Run("empty user id", func(t *testing.T) {
		_, err := m.Issue("")
		require.Error(t, err)
	})
}

func TestManager_VerifyRejects(t *testing.T) {
	now := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	m := token.New(token.NewHMACSigner(secretStr), token.WithNowFunc(clock))
	raw, err := m.Issue(testUserID)
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		_, err := m.Verify("")
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Verify("not-a-jwt")
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("different secret", func(t *testing.T) {
		other := token.New(token.NewHMACSigner("other-secret"), token.WithNowFunc(clock))
		_, err := other.Verify(raw)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("expired after ttl", func(t *testing.T) {
		later := token.New(token.NewHMACSigner(secretStr), token.WithNowFunc(func() time.Time {
			return now.Add(token.DefaultTTL + time.Minute)
		}))
		_, err := later.Verify(raw)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("still valid just before ttl", func(t *testing.T) {
		later := token.New(token.NewHMACSigner(secretStr), token.WithNowFunc(func() time.Time {
			return now.Add(token.DefaultTTL - time.Minute)
		}))
		userID, err := later.Verify(raw)
		require.NoError(t, err)
		require.Equal(t, testUserID, userID)
	})
}

func TestNewRandomHMACSigner(t *testing.T) {
	a, err := token.NewRandomHMACSigner()
	require.NoError(t, err)
	b, err := token.NewRandomHMACSigner()
	require.NoError(t, err)

	raw, err := token.New(a).Issue(testUserID)
	require.NoError(t, err)
	_, err = token.New(b).Verify(raw)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
