package users

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-signal-server/internal/errors"
)

var _ UserRepo = (*InMemoryUserRepo)(nil)

// InMemoryUserRepo keeps users in process memory. Returned users are copies.
type InMemoryUserRepo struct {
	users    map[string]*User
	emailIds map[string]string // email to user id
	lock     sync.RWMutex
}

func NewInMemoryUserRepo() *InMemoryUserRepo {
	return &InMemoryUserRepo{
		users:    make(map[string]*User),
		emailIds: make(map[string]string),
	}
}

func (ur *InMemoryUserRepo) Create(user *User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, ok := ur.emailIds[user.Email]; ok {
		return apperrors.ErrDuplicateUser
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	stored := *user
	ur.users[user.ID] = &stored
	ur.emailIds[user.Email] = user.ID
	return nil
}

func (ur *InMemoryUserRepo) GetByEmail(email string) (*User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	u := *ur.users[id]
	return &u, nil
}

func (ur *InMemoryUserRepo) GetByID(id string) (*User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (ur *InMemoryUserRepo) List(offset, limit int) (UsersListResponse, error) {
	if offset < 0 {
		offset = 0
	}
	userList := ur.sorted(func(*User) bool { return true })

	if offset >= len(userList) {
		return UsersListResponse{Users: []*User{}, Total: len(userList), Offset: offset}, nil
	}
	// Compare against the remainder so a huge limit cannot overflow offset+limit
	if limit <= 0 || limit > len(userList)-offset {
		limit = len(userList) - offset
	}

	return UsersListResponse{
		Users:  userList[offset : offset+limit],
		Total:  len(userList),
		Offset: offset,
		Limit:  limit,
	}, nil
}

func (ur *InMemoryUserRepo) Search(query string) ([]*User, error) {
	return ur.sorted(func(u *User) bool {
		return strings.Contains(u.Email, query)
	}), nil
}

func (ur *InMemoryUserRepo) Count() int {
	ur.lock.RLock()
	defer ur.lock.RUnlock()
	return len(ur.users)
}

// sorted returns copies of the matching users ordered by creation time, then email.
func (ur *InMemoryUserRepo) sorted(match func(*User) bool) []*User {
	ur.lock.RLock()
	userList := make([]*User, 0, len(ur.users))
	for _, v := range ur.users {
		if match(v) {
			u := *v
			userList = append(userList, &u)
		}
	}
	ur.lock.RUnlock()

	sort.Slice(userList, func(i, j int) bool {
		if userList[i].CreatedAt.Equal(userList[j].CreatedAt) {
			return userList[i].Email < userList[j].Email
		}
		return userList[i].CreatedAt.Before(userList[j].CreatedAt)
	})
	return userList
}
