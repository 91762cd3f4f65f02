package config

import "time"

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
	SignalConfig
	PublishConfig
	TelemetryConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type SignalConfig interface {
	GetSignalHistoryLimit() int
	GetNormalizePostSignals() bool
	GetNormalizeGetSignals() bool
}

type PublishConfig interface {
	GetKafkaBrokers() []string
	GetKafkaSignalTopic() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisSignalChannel() string
}

type mainConfig struct {
	EnvVars
	Cors
	Security
	Signals
	Publish
	Telemetry
}

func New() Config {
	return mainConfig{}
}

// DurationEnv parses envVar as a time.Duration, falling back to defaultValue
// when unset or malformed.
func DurationEnv(envVar string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(GetEnv(envVar, ""))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
