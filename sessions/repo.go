package sessions

import "time"

// Repo defines the interface for live session storage.
// Implementations must apply each method atomically.
type Repo interface {
	// Create stores a session unless the user already holds maxPerUser
	// sessions, in which case it returns ErrDeviceLimitExceeded
	Create(session Session, maxPerUser int) error

	// Touch sets the last activity of the session bound to token
	Touch(userID, token string, at time.Time) error

	// Delete removes the session bound to token
	Delete(userID, token string) error

	// DeleteAllExcept removes every session of the user except keepToken's
	DeleteAllExcept(userID, keepToken string) (int, error)

	// ListByUser returns the user's sessions, oldest first
	ListByUser(userID string) ([]Session, error)

	// CountByUser returns the number of live sessions for the user
	CountByUser(userID string) int

	// Count returns the number of live sessions across all users
	Count() int

	// DeleteIdle removes every session whose last activity is before cutoff
	DeleteIdle(cutoff time.Time) (int, error)
}
