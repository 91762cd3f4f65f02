package errors

import "errors"

// Common error types for the signal server
var (
	// Credential errors
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")

	// Token and session errors
	ErrMissingToken        = errors.New("missing bearer token")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrSessionNotFound     = errors.New("session not found")
	ErrDeviceLimitExceeded = errors.New("device limit exceeded")

	// Subscription errors
	ErrSubscriptionRequired = errors.New("active subscription required")
	ErrSubscriptionExpired  = errors.New("subscription expired")

	// Shared secret errors
	ErrInvalidSecret = errors.New("invalid shared secret")
	ErrAdminRequired = errors.New("admin access required")

	// General errors
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
	ErrInternal       = errors.New("internal error")
)

// Kind groups errors by how a caller should react to them.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindConflict
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrInvalidRequest, KindValidation},
	{ErrInvalidCredentials, KindAuthentication},
	{ErrMissingToken, KindAuthentication},
	{ErrInvalidToken, KindAuthentication},
	{ErrSessionNotFound, KindAuthentication},
	{ErrInvalidSecret, KindAuthentication},
	{ErrSubscriptionRequired, KindAuthorization},
	{ErrSubscriptionExpired, KindAuthorization},
	{ErrAdminRequired, KindAuthorization},
	{ErrDuplicateUser, KindConflict},
	{ErrDeviceLimitExceeded, KindConflict},
	{ErrUserNotFound, KindNotFound},
	{ErrNotFound, KindNotFound},
}

// KindOf classifies err by the first known sentinel in its chain.
// Unknown errors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// Sentinel returns the known sentinel in err's chain, or ErrInternal.
func Sentinel(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.err
		}
	}
	return ErrInternal
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
