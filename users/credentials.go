package users

import (
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-signal-server/internal/errors"
	"github.com/pkg/errors"
)

// dummyHash is compared against when the email is unknown so that a miss
// costs the same as a wrong password.
var dummyHash, _ = HashPassword("sova-signal-server-dummy-password")

// CredentialStore validates and creates user identities.
type CredentialStore struct {
	repo    UserRepo
	nowFunc func() time.Time
}

type CredentialStoreOption func(*CredentialStore)

// WithNowFunc sets the clock used for user creation timestamps.
func WithNowFunc(now func() time.Time) CredentialStoreOption {
	return func(cs *CredentialStore) {
		cs.nowFunc = now
	}
}

func NewCredentialStore(repo UserRepo, options ...CredentialStoreOption) *CredentialStore {
	cs := &CredentialStore{
		repo:    repo,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(cs)
	}
	return cs
}

// Register creates a user with a bcrypt hashed password and returns its ID.
func (cs *CredentialStore) Register(email, password string) (string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", errors.Wrap(apperrors.ErrInvalidRequest, "email and password are required")
	}
	if _, err := cs.repo.GetByEmail(email); err == nil {
		return "", apperrors.ErrDuplicateUser
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", errors.Wrap(err, "[CredentialStore.Register] HashPassword")
	}

	user := &User{Email: email, PasswordHash: hash, CreatedAt: cs.nowFunc()}
	if err := cs.repo.Create(user); err != nil {
		return "", errors.Wrap(err, "[CredentialStore.Register] Create")
	}
	return user.ID, nil
}

// Authenticate returns the user ID for a matching email and password.
// Unknown emails and wrong passwords produce the same error.
func (cs *CredentialStore) Authenticate(email, password string) (string, error) {
	user, err := cs.repo.GetByEmail(email)
	if err != nil {
		CheckPasswordHash(password, dummyHash)
		return "", apperrors.ErrInvalidCredentials
	}
	if !user.CheckPassword(password) {
		return "", apperrors.ErrInvalidCredentials
	}
	return user.ID, nil
}

// FindOrCreate returns the user for email, creating it with a random
// password when absent. Only trusted callers should use it.
func (cs *CredentialStore) FindOrCreate(email string) (userID string, isNew bool, err error) {
	if strings.TrimSpace(email) == "" {
		return "", false, errors.Wrap(apperrors.ErrInvalidRequest, "email is required")
	}
	if user, err := cs.repo.GetByEmail(email); err == nil {
		return user.ID, false, nil
	}

	password, err := randomPassword()
	if err != nil {
		return "", false, errors.Wrap(err, "[CredentialStore.FindOrCreate] randomPassword")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return "", false, errors.Wrap(err, "[CredentialStore.FindOrCreate] HashPassword")
	}

	user := &User{Email: email, PasswordHash: hash, CreatedAt: cs.nowFunc()}
	if err := cs.repo.Create(user); err != nil {
		// Lost a race with a concurrent create for the same email
		if apperrors.Is(err, apperrors.ErrDuplicateUser) {
			existing, getErr := cs.repo.GetByEmail(email)
			if getErr != nil {
				return "", false, errors.Wrap(getErr, "[CredentialStore.FindOrCreate] GetByEmail")
			}
			return existing.ID, false, nil
		}
		return "", false, errors.Wrap(err, "[CredentialStore.FindOrCreate] Create")
	}
	return user.ID, true, nil
}

// Get returns a copy of the user with the given ID.
func (cs *CredentialStore) Get(userID string) (*User, error) {
	return cs.repo.GetByID(userID)
}

// Lookup returns a copy of the user with the given email.
func (cs *CredentialStore) Lookup(email string) (*User, error) {
	return cs.repo.GetByEmail(email)
}

func (cs *CredentialStore) List(offset, limit int) (UsersListResponse, error) {
	return cs.repo.List(offset, limit)
}

func (cs *CredentialStore) Search(query string) ([]*User, error) {
	return cs.repo.Search(query)
}

func (cs *CredentialStore) Count() int {
	return cs.repo.Count()
}
