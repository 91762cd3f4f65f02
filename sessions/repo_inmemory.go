package sessions

import (
	"sort"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/go-signal-server/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is an in-memory implementation of Repo
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]map[string]Session // userID -> token -> Session
}

// NewInMemoryRepo creates a new in-memory session repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		sessions: make(map[string]map[string]Session),
	}
}

func (r *InMemoryRepo) Create(session Session, maxPerUser int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	userSessions, ok := r.sessions[session.UserID]
	if !ok {
		userSessions = make(map[string]Session)
		r.sessions[session.UserID] = userSessions
	}
	if maxPerUser > 0 && len(userSessions) >= maxPerUser {
		return apperrors.ErrDeviceLimitExceeded
	}
	userSessions[session.Token] = session
	return nil
}

func (r *InMemoryRepo) Touch(userID, token string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[userID][token]
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	session.LastActivity = at
	r.sessions[userID][token] = session
	return nil
}

func (r *InMemoryRepo) Delete(userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	userSessions, ok := r.sessions[userID]
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	if _, ok := userSessions[token]; !ok {
		return apperrors.ErrSessionNotFound
	}
	delete(userSessions, token)

	// Clean up empty user map
	if len(userSessions) == 0 {
		delete(r.sessions, userID)
	}
	return nil
}

func (r *InMemoryRepo) DeleteAllExcept(userID, keepToken string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for token := range r.sessions[userID] {
		if token != keepToken {
			delete(r.sessions[userID], token)
			removed++
		}
	}
	if len(r.sessions[userID]) == 0 {
		delete(r.sessions, userID)
	}
	return removed, nil
}

func (r *InMemoryRepo) ListByUser(userID string) ([]Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Session, 0, len(r.sessions[userID]))
	for _, s := range r.sessions[userID] {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (r *InMemoryRepo) CountByUser(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions[userID])
}

func (r *InMemoryRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, userSessions := range r.sessions {
		n += len(userSessions)
	}
	return n
}

func (r *InMemoryRepo) DeleteIdle(cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for userID, userSessions := range r.sessions {
		for token, s := range userSessions {
			if s.LastActivity.Before(cutoff) {
				delete(userSessions, token)
				removed++
			}
		}
		if len(userSessions) == 0 {
			delete(r.sessions, userID)
		}
	}
	return removed, nil
}
