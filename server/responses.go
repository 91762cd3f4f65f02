package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-signal-server/internal/errors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// maxBodyBytes caps every JSON or form request body.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type errorMapping struct {
	status int
	code   string
}

var errorMappings = map[error]errorMapping{
	apperrors.ErrInvalidRequest:       {http.StatusBadRequest, "INVALID_REQUEST"},
	apperrors.ErrDuplicateUser:        {http.StatusBadRequest, "DUPLICATE_USER"},
	apperrors.ErrInvalidCredentials:   {http.StatusBadRequest, "INVALID_CREDENTIALS"},
	apperrors.ErrMissingToken:         {http.StatusUnauthorized, "MISSING_TOKEN"},
	apperrors.ErrInvalidToken:         {http.StatusUnauthorized, "INVALID_TOKEN"},
	apperrors.ErrInvalidSecret:        {http.StatusUnauthorized, "INVALID_SECRET"},
	apperrors.ErrSessionNotFound:      {http.StatusForbidden, "SESSION_NOT_FOUND"},
	apperrors.ErrDeviceLimitExceeded:  {http.StatusForbidden, "DEVICE_LIMIT_EXCEEDED"},
	apperrors.ErrSubscriptionRequired: {http.StatusForbidden, "SUBSCRIPTION_REQUIRED"},
	apperrors.ErrSubscriptionExpired:  {http.StatusForbidden, "SUBSCRIPTION_EXPIRED"},
	apperrors.ErrAdminRequired:        {http.StatusForbidden, "ADMIN_REQUIRED"},
	apperrors.ErrUserNotFound:         {http.StatusNotFound, "USER_NOT_FOUND"},
	apperrors.ErrNotFound:             {http.StatusNotFound, "NOT_FOUND"},
}

// statusOf maps err to its HTTP status, stable code and caller-facing message.
func statusOf(err error) (int, string, string) {
	sentinel := apperrors.Sentinel(err)
	m, ok := errorMappings[sentinel]
	if !ok {
		return http.StatusInternalServerError, "INTERNAL_ERROR", apperrors.ErrInternal.Error()
	}
	// Validation messages carry the offending field
	if sentinel == apperrors.ErrInvalidRequest {
		return m.status, m.code, err.Error()
	}
	return m.status, m.code, sentinel.Error()
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).Msg("failed to encode response")
	}
}

// writeError writes the JSON error body for err. Internal errors are logged
// and reported to the caller without detail.
func writeError(w http.ResponseWriter, err error) {
	status, code, message := statusOf(err)
	if kind := apperrors.KindOf(err); kind == apperrors.KindInternal {
		log.Err(err).Msg("internal error")
	} else {
		log.Debug().Err(err).Stringer("kind", kind).Int("status", status).Msg("request rejected")
	}
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// decodeJSON reads a JSON body into dst. Malformed, oversized or trailing
// content is an invalid request.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(apperrors.ErrInvalidRequest, "malformed JSON body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.Wrap(apperrors.ErrInvalidRequest, "unexpected data after JSON body")
	}
	return nil
}

// decodeForm parses a url-encoded body into r.PostForm.
func decodeForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return errors.Wrap(apperrors.ErrInvalidRequest, "malformed form body")
	}
	return nil
}

func isFormRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
}
