package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-signal-server/internal/errors"
	"github.com/pkg/errors"
)

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = 24 * time.Hour

// Manager issues and verifies time-boxed bearer tokens whose only
// application claim is the user id (the JWT subject).
type Manager struct {
	signer  Signer
	ttl     time.Duration
	nowFunc func() time.Time
}

type ManagerOption func(*Manager)

func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func New(signer Signer, options ...ManagerOption) *Manager {
	m := &Manager{
		signer:  signer,
		ttl:     DefaultTTL,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	if m.ttl <= 0 {
		m.ttl = DefaultTTL
	}
	return m
}

// Issue signs a new token for userID. Each call yields a distinct token.
func (m *Manager) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("[Manager.Issue] user id is required")
	}
	now := m.nowFunc()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		ID:        uuid.New().String(), // Keeps tokens unique for the same user and second
	}
	signed, err := m.signer.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "[Manager.Issue] Sign")
	}
	return signed, nil
}

// Verify checks the signature and expiry of rawToken and returns the user id.
func (m *Manager) Verify(rawToken string) (string, error) {
	if strings.TrimSpace(rawToken) == "" {
		return "", apperrors.ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(rawToken, claims, m.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{m.signer.GetSigningMethod().Alg()}),
		jwt.WithTimeFunc(m.nowFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return "", errors.Wrap(apperrors.ErrInvalidToken, "token verification failed")
	}
	if claims.Subject == "" {
		return "", errors.Wrap(apperrors.ErrInvalidToken, "token has no subject")
	}
	return claims.Subject, nil
}
