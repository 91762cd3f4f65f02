package server

import (
	"net/http"

	"github.com/jrsteele09/go-signal-server/sessions"
	"github.com/rs/zerolog/log"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

type sessionsResponse struct {
	Sessions   []sessions.Info `json:"sessions"`
	MaxDevices int             `json:"maxDevices"`
}

type messageResponse struct {
	Message string `json:"message"`
	Removed *int   `json:"removed,omitempty"`
}

// RegisterHandler creates an account and logs the caller in on this device.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}

		userID, err := s.users.Register(req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		rawToken, err := s.sessions.Login(userID, clientAddr(r), r.UserAgent())
		if err != nil {
			writeError(w, err)
			return
		}

		log.Info().Str("user_id", userID).Msg("user registered")
		writeJSON(w, http.StatusCreated, tokenResponse{Token: rawToken, UserID: userID})
	}
}

// LoginHandler opens a new session subject to the device cap.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}

		userID, err := s.users.Authenticate(req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		rawToken, err := s.sessions.Login(userID, clientAddr(r), r.UserAgent())
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("login rejected")
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, tokenResponse{Token: rawToken, UserID: userID})
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, rawToken := identity(r)
		if err := s.sessions.Logout(userID, rawToken); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "logged out"})
	}
}

func (s *Server) SessionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, rawToken := identity(r)
		list, err := s.sessions.ListSessions(userID, rawToken)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sessionsResponse{Sessions: list, MaxDevices: s.sessions.MaxDevices()})
	}
}

func (s *Server) LogoutOtherSessionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, rawToken := identity(r)
		removed, err := s.sessions.LogoutOthers(userID, rawToken)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "other sessions logged out", Removed: &removed})
	}
}
