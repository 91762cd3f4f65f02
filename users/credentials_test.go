package users_test

import (
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	apperrors "github.com/jrsteele09/go-signal-server/internal/errors"
	"github.com/jrsteele09/go-signal-server/users"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "a@x.com"
	testPassword = "pw"
)

func newStore(t *testing.T) (*users.CredentialStore, users.UserRepo) {
	t.Helper()
	repo := users.NewInMemoryUserRepo()
	now := time.Date(2025, 1, 31, 12, 0, 0, 0, time.UTC)
	return users.NewCredentialStore(repo, users.WithNowFunc(func() time.Time { return now })), repo
}

func TestCredentialStore_Register(t *testing.T) {
	t.Run("stores a hashed password", func(t *testing.T) {
		store, repo := newStore(t)

		id, err := store.Register(testEmail, testPassword)
		require.NoError(t, err)
		require.NotEmpty(t, id)

		user, err := repo.GetByID(id)
		require.NoError(t, err)
		require.Equal(t, testEmail, user.Email)
		require.NotEqual(t, testPassword, user.PasswordHash)
		require.True(t, users.CheckPasswordHash(testPassword, user.PasswordHash))
	})

	t.Run("duplicate email", func(t *testing.T) {
		store, _ := newStore(t)

		_, err := store.Register(testEmail, testPassword)
		require.NoError(t, err)

		_, err = store.Register(testEmail, "other")
		require.ErrorIs(t, err, apperrors.ErrDuplicateUser)
	})

	t.Run("email match is case sensitive", func(t *testing.T) {
		store, _ := newStore(t)

		_, err := store.Register(testEmail, testPassword)
		require.NoError(t, err)

		_, err = store.Register("A@x.com", testPassword)
		require.NoError(t, err)
	})

	t.Run("missing fields", func(t *testing.T) {
		store, _ := newStore(t)

		_, err := store.Register("", testPassword)
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)

		_, err = store.Register(testEmail, "")
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	})
}

func TestCredentialStore_Authenticate(t *testing.T) {
	store, _ := newStore(t)
	id, err := store.Register(testEmail, testPassword)
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		got, err := store.Authenticate(testEmail, testPassword)
		require.NoError(t, err)
		require.Equal(t, id, got)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		_, wrongPassword := store.Authenticate(testEmail, "nope")
		_, unknownEmail := store.Authenticate("b@x.com", testPassword)

		require.ErrorIs(t, wrongPassword, apperrors.ErrInvalidCredentials)
		require.ErrorIs(t, unknownEmail, apperrors.ErrInvalidCredentials)
		require.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	})
}

func TestCredentialStore_FindOrCreate(t *testing.T) {
	t.Run("creates unknown user", func(t *testing.T) {
		store, repo := newStore(t)

		id, isNew, err := store.FindOrCreate(testEmail)
		require.NoError(t, err)
		require.True(t, isNew)

		user, err := repo.GetByID(id)
		require.NoError(t, err)
		require.NotEmpty(t, user.PasswordHash)
	})

	t.Run("returns existing user", func(t *testing.T) {
		store, _ := newStore(t)
		registered, err := store.Register(testEmail, testPassword)
		require.NoError(t, err)

		id, isNew, err := store.FindOrCreate(testEmail)
		require.NoError(t, err)
		require.False(t, isNew)
		require.Equal(t, registered, id)
	})

	t.Run("concurrent creates yield one user", func(t *testing.T) {
		store, repo := newStore(t)

		var wg sync.WaitGroup
		ids := make([]string, 4)
		errs := make([]error, 4)
		for i := range ids {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				ids[i], _, errs[i] = store.FindOrCreate(testEmail)
			}(i)
		}
		wg.Wait()

		require.Equal(t, 1, repo.Count())
		for i, id := range ids {
			require.NoError(t, errs[i])
			require.Equal(t, ids[0], id)
		}
	})
}

func TestInMemoryUserRepo_ListAndSearch(t *testing.T) {
	repo := users.NewInMemoryUserRepo()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(&users.User{
			Email:     fmt.Sprintf("user%d@example.com", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	page, err := repo.List(1, 2)
	require.NoError(t, err)
	require.Equal(t, 5, page.Total)
	require.Len(t, page.Users, 2)
	require.Equal(t, "user1@example.com", page.Users[0].Email)

	page, err = repo.List(10, 2)
	require.NoError(t, err)
	require.Empty(t, page.Users)

	page, err = repo.List(1, math.MaxInt)
	require.NoError(t, err)
	require.Len(t, page.Users, 4)
	require.Equal(t, 4, page.Limit)

	found, err := repo.Search("user3")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "user3@example.com", found[0].Email)
}
