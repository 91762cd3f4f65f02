package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-signal-server/internal/errors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	DefaultMaxDevices    = 2
	DefaultIdleTimeout   = 30 * time.Minute
	DefaultSweepInterval = 5 * time.Minute
)

// Tokens issues and verifies the bearer tokens bound to sessions.
type Tokens interface {
	Issue(userID string) (string, error)
	Verify(rawToken string) (string, error)
}

// Manager tracks the live sessions of every user and enforces the device cap.
// A token is only accepted while its session is live, so logout revokes a
// token that is still cryptographically valid.
type Manager struct {
	repo       Repo
	tokens     Tokens
	maxDevices int
	nowFunc    func() time.Time
}

type ManagerOption func(*Manager)

func WithMaxDevices(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.maxDevices = n
		}
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func NewManager(repo Repo, tokens Tokens, options ...ManagerOption) *Manager {
	m := &Manager{
		repo:       repo,
		tokens:     tokens,
		maxDevices: DefaultMaxDevices,
		nowFunc:    time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// MaxDevices returns the configured device cap.
func (m *Manager) MaxDevices() int {
	return m.maxDevices
}

// Login opens a session for userID and returns its bearer token. It fails
// with ErrDeviceLimitExceeded when the user already holds the maximum
// number of live sessions.
func (m *Manager) Login(userID, clientAddr, clientAgent string) (string, error) {
	rawToken, err := m.tokens.Issue(userID)
	if err != nil {
		return "", errors.Wrap(err, "[Manager.Login] Issue")
	}

	now := m.nowFunc()
	err = m.repo.Create(Session{
		ID:           uuid.New().String(),
		UserID:       userID,
		Token:        rawToken,
		ClientAddr:   clientAddr,
		ClientAgent:  clientAgent,
		CreatedAt:    now,
		LastActivity: now,
	}, m.maxDevices)
	if err != nil {
		return "", errors.Wrap(err, "[Manager.Login] Create")
	}
	return rawToken, nil
}

// Validate returns the user owning rawToken and refreshes the session's
// last activity.
func (m *Manager) Validate(rawToken string) (string, error) {
	userID, err := m.tokens.Verify(rawToken)
	if err != nil {
		return "", err
	}
	if err := m.repo.Touch(userID, rawToken, m.nowFunc()); err != nil {
		return "", err
	}
	return userID, nil
}

// Logout removes the session bound to rawToken.
func (m *Manager) Logout(userID, rawToken string) error {
	return m.repo.Delete(userID, rawToken)
}

// LogoutOthers removes every session of userID except the one bound to
// currentToken and returns how many were removed.
func (m *Manager) LogoutOthers(userID, currentToken string) (int, error) {
	return m.repo.DeleteAllExcept(userID, currentToken)
}

// ListSessions returns the user's live sessions, marking the one bound to
// currentToken.
func (m *Manager) ListSessions(userID, currentToken string) ([]Info, error) {
	list, err := m.repo.ListByUser(userID)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.ListSessions] ListByUser")
	}
	infos := make([]Info, 0, len(list))
	for _, s := range list {
		infos = append(infos, Info{
			ID:           s.ID,
			ClientAddr:   s.ClientAddr,
			ClientAgent:  s.ClientAgent,
			CreatedAt:    s.CreatedAt,
			LastActivity: s.LastActivity,
			Current:      currentToken != "" && s.Token == currentToken,
		})
	}
	return infos, nil
}

// CountFor returns the number of live sessions held by userID.
func (m *Manager) CountFor(userID string) int {
	return m.repo.CountByUser(userID)
}

// Count returns the number of live sessions across all users.
func (m *Manager) Count() int {
	return m.repo.Count()
}

// SweepIdle removes every session idle for longer than idleThreshold.
func (m *Manager) SweepIdle(idleThreshold time.Duration) (int, error) {
	return m.repo.DeleteIdle(m.nowFunc().Add(-idleThreshold))
}

// RunSweeper calls SweepIdle every interval until ctx is cancelled.
func (m *Manager) RunSweeper(ctx context.Context, interval, idleThreshold time.Duration) error {
	if interval <= 0 {
		return errors.Wrap(apperrors.ErrInvalidRequest, "sweep interval must be positive")
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			removed, err := m.SweepIdle(idleThreshold)
			if err != nil {
				log.Err(err).Msg("idle session sweep failed")
				continue
			}
			if removed > 0 {
				log.Info().Int("removed", removed).Dur("idle_threshold", idleThreshold).Msg("swept idle sessions")
			}
		}
	}
}
