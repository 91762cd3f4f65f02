package sessions

import "time"

// Session is one logged-in device for one user, bound to a single bearer token.
type Session struct {
	ID           string    // Unique session identifier (UUID)
	UserID       string    // Owning user
	Token        string    // Bearer token issued at login
	ClientAddr   string    // Remote address of the device
	ClientAgent  string    // User agent of the device
	CreatedAt    time.Time // When the session was created
	LastActivity time.Time // Refreshed on every authenticated request
}

// Info is the caller-facing view of a session. It never exposes the token.
type Info struct {
	ID           string    `json:"id"`
	ClientAddr   string    `json:"clientAddr"`
	ClientAgent  string    `json:"clientAgent"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
	Current      bool      `json:"current"`
}
