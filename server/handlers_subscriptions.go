package server

import (
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-signal-server/internal/errors"
	"github.com/jrsteele09/go-signal-server/subscriptions"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// defaultActivationMonths is used when an activation omits months.
const defaultActivationMonths = 1

type activationRequest struct {
	Email         string  `json:"email"`
	OrderID       string  `json:"orderId"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	PaymentSystem string  `json:"paymentSystem"`
	Months        int     `json:"months"`
}

type activationResponse struct {
	Success      bool                       `json:"success"`
	UserID       string                     `json:"userId"`
	IsNewUser    bool                       `json:"isNewUser"`
	Subscription subscriptions.Subscription `json:"subscription"`
}

type emailStatusResponse struct {
	Email string `json:"email"`
	subscriptions.StatusReport
}

func (s *Server) SubscriptionStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := identity(r)
		writeJSON(w, http.StatusOK, s.subscriptions.StatusOf(userID))
	}
}

func (s *Server) CheckSubscriptionByEmailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		if strings.TrimSpace(email) == "" {
			writeError(w, errors.Wrap(apperrors.ErrInvalidRequest, "email is required"))
			return
		}
		user, err := s.users.Lookup(email)
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			// Unknown and unsubscribed emails answer alike.
			writeJSON(w, http.StatusOK, emailStatusResponse{Email: email})
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, emailStatusResponse{Email: user.Email, StatusReport: s.subscriptions.StatusOf(user.ID)})
	}
}

// AutoActivateHandler grants a subscription on behalf of the payment
// webhook, creating the user when the email is unknown.
func (s *Server) AutoActivateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req activationRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Months == 0 {
			req.Months = defaultActivationMonths
		}

		userID, isNew, err := s.users.FindOrCreate(req.Email)
		if err != nil {
			writeError(w, err)
			return
		}
		sub, err := s.subscriptions.Activate(userID, req.Months, subscriptions.Payment{
			Reference: req.OrderID,
			Amount:    req.Amount,
			Currency:  req.Currency,
			Channel:   req.PaymentSystem,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		log.Info().
			Str("user_id", userID).
			Bool("new_user", isNew).
			Str("order_id", req.OrderID).
			Int("months", sub.Months).
			Time("expires_at", sub.ExpiresAt).
			Msg("subscription activated")
		writeJSON(w, http.StatusOK, activationResponse{Success: true, UserID: userID, IsNewUser: isNew, Subscription: sub})
	}
}
