package server

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-signal-server/internal/errors"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUserID stores the authenticated user ID
	ContextKeyUserID ContextKey = "user_id"
	// ContextKeyToken stores the bearer token the request was authorized with
	ContextKeyToken ContextKey = "token"
)

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", apperrors.ErrMissingToken
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.ErrInvalidToken
	}
	return strings.TrimSpace(parts[1]), nil
}

func withIdentity(r *http.Request, userID, rawToken string) *http.Request {
	ctx := context.WithValue(r.Context(), ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, ContextKeyToken, rawToken)
	return r.WithContext(ctx)
}

// identity returns the user and token stored by RequireAuth or RequireSubscription.
func identity(r *http.Request) (userID, rawToken string) {
	userID, _ = r.Context().Value(ContextKeyUserID).(string)
	rawToken, _ = r.Context().Value(ContextKeyToken).(string)
	return userID, rawToken
}

// RequireAuth is middleware that validates a bearer token against the live sessions
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			rawToken, err := bearerToken(r)
			if err != nil {
				writeError(w, err)
				return
			}
			userID, err := s.gateway.Authorize(rawToken)
			if err != nil {
				writeError(w, err)
				return
			}
			next(w, withIdentity(r, userID, rawToken))
		}
	}
}

// RequireSubscription is RequireAuth plus an active subscription check
func (s *Server) RequireSubscription() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			rawToken, err := bearerToken(r)
			if err != nil {
				writeError(w, err)
				return
			}
			userID, err := s.gateway.AuthorizeWithSubscription(rawToken)
			if err != nil {
				writeError(w, err)
				return
			}
			next(w, withIdentity(r, userID, rawToken))
		}
	}
}

// RequireWebhookSecret guards the trusted payment activation path
func (s *Server) RequireWebhookSecret() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if err := s.gateway.AuthorizeTrustedActivation(r.Header.Get(HeaderWebhookSecret)); err != nil {
				writeError(w, err)
				return
			}
			next(w, r)
		}
	}
}

// RequireAdmin guards the admin routes with the admin shared secret
func (s *Server) RequireAdmin() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if err := s.gateway.AuthorizeAdmin(r.Header.Get(HeaderAdminSecret)); err != nil {
				writeError(w, err)
				return
			}
			next(w, r)
		}
	}
}
