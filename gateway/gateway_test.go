package gateway_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-signal-server/gateway"
	apperrors "github.com/jrsteele09/go-signal-server/internal/errors"
	"github.com/jrsteele09/go-signal-server/sessions"
	"github.com/jrsteele09/go-signal-server/subscriptions"
	"github.com/jrsteele09/go-signal-server/token"
	"github.com/stretchr/testify/require"
)

const (
	testUserID       = "user-1"
	activationSecret = "webhook-secret"
	adminSecret      = "admin-secret"
)

type testFixture struct {
	now      time.Time
	sessions *sessions.Manager
	registry *subscriptions.Registry
	gateway  *gateway.Gateway
}

func (f *testFixture) Now() time.Time { return f.now }

func setupTestFixture(t *testing.T, options ...gateway.Option) *testFixture {
	t.Helper()
	f := &testFixture{now: time.Date(2025, time.January, 31, 12, 0, 0, 0, time.UTC)}
	tokens := token.New(token.NewHMACSigner("1234"), token.WithNowFunc(f.Now))
	f.sessions = sessions.NewManager(sessions.NewInMemoryRepo(), tokens, sessions.WithNowFunc(f.Now))
	f.registry = subscriptions.NewRegistry(subscriptions.WithNowFunc(f.Now))
	f.gateway = gateway.New(f.sessions, f.registry, options...)
	return f
}

func TestGateway_Authorize(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.gateway.Authorize("")
	require.ErrorIs(t, err, apperrors.ErrMissingToken)

	_, err = f.gateway.Authorize("not-a-token")
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)

	raw, err := f.sessions.Login(testUserID, "127.0.0.1", "test")
	require.NoError(t, err)

	userID, err := f.gateway.Authorize(raw)
	require.NoError(t, err)
	require.Equal(t, testUserID, userID)

	require.NoError(t, f.sessions.Logout(testUserID, raw))
	_, err = f.gateway.Authorize(raw)
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestGateway_AuthorizeWithSubscription(t *testing.T) {
	f := setupTestFixture(t)

	raw, err := f.sessions.Login(testUserID, "127.0.0.1", "test")
	require.NoError(t, err)

	_, err = f.gateway.AuthorizeWithSubscription(raw)
	require.ErrorIs(t, err, apperrors.ErrSubscriptionRequired)

	_, err = f.registry.Activate(testUserID, 1, subscriptions.Payment{Reference: "order-1"})
	require.NoError(t, err)

	userID, err := f.gateway.AuthorizeWithSubscription(raw)
	require.NoError(t, err)
	require.Equal(t, testUserID, userID)

	t.Run("lazily expired by this check", func(t *testing.T) {
		// Jan 31 + 1 month clamps to Feb 28; stay inside the token's 24h window
		f.now = time.Date(2025, time.February, 28, 12, 0, 1, 0, time.UTC)
		raw, err := f.sessions.Login(testUserID, "127.0.0.1", "test")
		require.NoError(t, err)

		_, err = f.gateway.AuthorizeWithSubscription(raw)
		require.ErrorIs(t, err, apperrors.ErrSubscriptionExpired)

		_, err = f.gateway.AuthorizeWithSubscription(raw)
		require.ErrorIs(t, err, apperrors.ErrSubscriptionRequired)
	})
}

func TestGateway_SharedSecrets(t *testing.T) {
	t.Run("configured", func(t *testing.T) {
		f := setupTestFixture(t, gateway.WithActivationSecret(activationSecret), gateway.WithAdminSecret(adminSecret))
		require.True(t, f.gateway.ActivationEnabled())
		require.True(t, f.gateway.AdminEnabled())

		require.NoError(t, f.gateway.AuthorizeTrustedActivation(activationSecret))
		require.ErrorIs(t, f.gateway.AuthorizeTrustedActivation("wrong"), apperrors.ErrInvalidSecret)
		require.ErrorIs(t, f.gateway.AuthorizeTrustedActivation(adminSecret), apperrors.ErrInvalidSecret)

		require.NoError(t, f.gateway.AuthorizeAdmin(adminSecret))
		require.ErrorIs(t, f.gateway.AuthorizeAdmin(""), apperrors.ErrAdminRequired)
	})

	t.Run("unconfigured secrets reject everything", func(t *testing.T) {
		f := setupTestFixture(t)
		require.False(t, f.gateway.ActivationEnabled())
		require.ErrorIs(t, f.gateway.AuthorizeTrustedActivation(""), apperrors.ErrInvalidSecret)
		require.ErrorIs(t, f.gateway.AuthorizeAdmin(""), apperrors.ErrAdminRequired)
	})
}
