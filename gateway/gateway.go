package gateway

import (
	"crypto/subtle"

	apperrors "github.com/jrsteele09/go-signal-server/internal/errors"
)

// Sessions validates bearer tokens against live session state.
type Sessions interface {
	Validate(rawToken string) (string, error)
}

// Subscriptions reports whether a user may read protected data.
type Subscriptions interface {
	Require(userID string) error
}

// Gateway authorizes requests by composing session validation,
// subscription checks and the two pre-shared secrets.
type Gateway struct {
	sessions         Sessions
	subscriptions    Subscriptions
	activationSecret string
	adminSecret      string
}

type Option func(*Gateway)

// WithActivationSecret sets the payment webhook secret. An empty secret
// rejects every trusted activation.
func WithActivationSecret(secret string) Option {
	return func(g *Gateway) {
		g.activationSecret = secret
	}
}

// WithAdminSecret sets the admin secret. An empty secret rejects every admin call.
func WithAdminSecret(secret string) Option {
	return func(g *Gateway) {
		g.adminSecret = secret
	}
}

func New(sessions Sessions, subscriptions Subscriptions, options ...Option) *Gateway {
	g := &Gateway{
		sessions:      sessions,
		subscriptions: subscriptions,
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Authorize returns the user bound to rawToken. Session errors are
// returned unchanged.
func (g *Gateway) Authorize(rawToken string) (string, error) {
	if rawToken == "" {
		return "", apperrors.ErrMissingToken
	}
	return g.sessions.Validate(rawToken)
}

// AuthorizeWithSubscription is Authorize followed by an active
// subscription check.
func (g *Gateway) AuthorizeWithSubscription(rawToken string) (string, error) {
	userID, err := g.Authorize(rawToken)
	if err != nil {
		return "", err
	}
	if err := g.subscriptions.Require(userID); err != nil {
		return "", err
	}
	return userID, nil
}

// AuthorizeTrustedActivation checks the payment webhook secret.
func (g *Gateway) AuthorizeTrustedActivation(secret string) error {
	if !secretMatches(g.activationSecret, secret) {
		return apperrors.ErrInvalidSecret
	}
	return nil
}

// AuthorizeAdmin checks the admin secret.
func (g *Gateway) AuthorizeAdmin(secret string) error {
	if !secretMatches(g.adminSecret, secret) {
		return apperrors.ErrAdminRequired
	}
	return nil
}

// ActivationEnabled reports whether a webhook secret is configured.
func (g *Gateway) ActivationEnabled() bool {
	return g.activationSecret != ""
}

// AdminEnabled reports whether an admin secret is configured.
func (g *Gateway) AdminEnabled() bool {
	return g.adminSecret != ""
}

func secretMatches(expected, given string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(given)) == 1
}
