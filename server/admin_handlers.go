package server

import (
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/jrsteele09/go-signal-server/internal/errors"
	"github.com/jrsteele09/go-signal-server/subscriptions"
	"github.com/jrsteele09/go-signal-server/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Admin subscription actions
const (
	ActionActivate   = "activate"
	ActionDeactivate = "deactivate"
	ActionDelete     = "delete"
)

type adminUser struct {
	*users.User
	Subscription subscriptions.StatusReport `json:"subscription"`
	Sessions     int                        `json:"sessions"`
}

type adminUsersResponse struct {
	Users  []adminUser `json:"users"`
	Total  int         `json:"total"`
	Offset int         `json:"offset"`
	Limit  int         `json:"limit"`
}

type adminStatsResponse struct {
	Users               int `json:"users"`
	ActiveSubscriptions int `json:"activeSubscriptions"`
	LiveSessions        int `json:"liveSessions"`
	Signals             int `json:"signals"`
}

type adminSearchResponse struct {
	Query string      `json:"query"`
	Users []adminUser `json:"users"`
}

type adminSubscriptionRequest struct {
	Email  string `json:"email"`
	Action string `json:"action"`
	Months int    `json:"months"`
}

type adminSubscriptionResponse struct {
	Success bool                       `json:"success"`
	UserID  string                     `json:"userId"`
	Action  string                     `json:"action"`
	Status  subscriptions.StatusReport `json:"status"`
}

func (s *Server) adminView(list []*users.User) []adminUser {
	out := make([]adminUser, 0, len(list))
	for _, u := range list {
		out = append(out, adminUser{
			User:         u,
			Subscription: s.subscriptions.StatusOf(u.ID),
			Sessions:     s.sessions.CountFor(u.ID),
		})
	}
	return out
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.Wrapf(apperrors.ErrInvalidRequest, "%s must be a non-negative integer", key)
	}
	return n, nil
}

// AdminUsersHandler pages through users with their subscription and session state.
func (s *Server) AdminUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, err := queryInt(r, "offset")
		if err != nil {
			writeError(w, err)
			return
		}
		limit, err := queryInt(r, "limit")
		if err != nil {
			writeError(w, err)
			return
		}

		page, err := s.users.List(offset, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, adminUsersResponse{
			Users:  s.adminView(page.Users),
			Total:  page.Total,
			Offset: page.Offset,
			Limit:  page.Limit,
		})
	}
}

func (s *Server) AdminStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, adminStatsResponse{
			Users:               s.users.Count(),
			ActiveSubscriptions: s.subscriptions.CountActive(),
			LiveSessions:        s.sessions.Count(),
			Signals:             s.ledger.Len(),
		})
	}
}

// AdminSearchHandler finds users whose email contains q.
func (s *Server) AdminSearchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			writeError(w, errors.Wrap(apperrors.ErrInvalidRequest, "q is required"))
			return
		}
		found, err := s.users.Search(query)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, adminSearchResponse{Query: query, Users: s.adminView(found)})
	}
}

// AdminSubscriptionHandler activates, deactivates or deletes a user's subscription.
func (s *Server) AdminSubscriptionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminSubscriptionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
		if strings.TrimSpace(req.Email) == "" {
			writeError(w, errors.Wrap(apperrors.ErrInvalidRequest, "email is required"))
			return
		}
		user, err := s.users.Lookup(req.Email)
		if err != nil {
			writeError(w, err)
			return
		}

		switch req.Action {
		case ActionActivate:
			if req.Months == 0 {
				req.Months = defaultActivationMonths
			}
			if _, err := s.subscriptions.Activate(user.ID, req.Months, subscriptions.Payment{Channel: "admin"}); err != nil {
				writeError(w, err)
				return
			}
		case ActionDeactivate:
			s.subscriptions.Deactivate(user.ID)
		case ActionDelete:
			s.subscriptions.Delete(user.ID)
		default:
			writeError(w, errors.Wrapf(apperrors.ErrInvalidRequest, "unknown action %q", req.Action))
			return
		}

		log.Info().Str("user_id", user.ID).Str("action", req.Action).Msg("admin subscription change")
		writeJSON(w, http.StatusOK, adminSubscriptionResponse{
			Success: true,
			UserID:  user.ID,
			Action:  req.Action,
			Status:  s.subscriptions.StatusOf(user.ID),
		})
	}
}
