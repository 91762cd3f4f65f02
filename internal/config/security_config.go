package config

import "time"

type SecurityConfig interface {
	GetJWTSecret() string
	GetActivationSecret() string
	GetAdminSecret() string
	GetMaxDevices() int
	GetTokenTTL() time.Duration
	GetSessionIdleTimeout() time.Duration
	GetSessionSweepInterval() time.Duration
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetJWTSecret returns the token signing secret. Empty means the caller
// should generate a per-process secret.
func (Security) GetJWTSecret() string {
	return GetEnv("JWT_SECRET", "")
}

// GetActivationSecret returns the payment webhook secret. Empty disables
// trusted activation.
func (Security) GetActivationSecret() string {
	return GetEnv("ACTIVATION_SECRET", "")
}

// GetAdminSecret returns the admin secret. Empty disables the admin routes.
func (Security) GetAdminSecret() string {
	return GetEnv("ADMIN_SECRET", "")
}

func (Security) GetMaxDevices() int {
	if n := IntEnv("MAX_DEVICES", 2); n > 0 {
		return n
	}
	return 2
}

func (Security) GetTokenTTL() time.Duration {
	return DurationEnv("TOKEN_TTL", 24*time.Hour)
}

func (Security) GetSessionIdleTimeout() time.Duration {
	return DurationEnv("SESSION_IDLE_TIMEOUT", 30*time.Minute)
}

func (Security) GetSessionSweepInterval() time.Duration {
	return DurationEnv("SESSION_SWEEP_INTERVAL", 5*time.Minute)
}
