package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-signal-server/internal/config"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "APP_NAME", "ENV", "LOG_LEVEL", "JWT_SECRET", "ACTIVATION_SECRET", "ADMIN_SECRET",
		"MAX_DEVICES", "TOKEN_TTL", "SESSION_IDLE_TIMEOUT", "SESSION_SWEEP_INTERVAL",
		"SIGNAL_HISTORY_LIMIT", "SIGNAL_NORMALIZE_POST", "SIGNAL_NORMALIZE_GET",
		"CORS_ALLOWED_ORIGINS", "KAFKA_BROKERS", "KAFKA_SIGNAL_TOPIC", "REDIS_ADDR", "REDIS_DB",
		"OTEL_EXPORTER_OTLP_ENDPOINT",
	} {
		t.Setenv(key, "")
	}
	c := config.New()

	require.Equal(t, ":3000", c.GetPort())
	require.Equal(t, "SOVA Signal Server", c.GetAppName())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, "info", c.GetLogLevel())
	require.Empty(t, c.GetJWTSecret())
	require.Empty(t, c.GetActivationSecret())
	require.Empty(t, c.GetAdminSecret())
	require.Equal(t, 2, c.GetMaxDevices())
	require.Equal(t, 24*time.Hour, c.GetTokenTTL())
	require.Equal(t, 30*time.Minute, c.GetSessionIdleTimeout())
	require.Equal(t, 5*time.Minute, c.GetSessionSweepInterval())
	require.Equal(t, 1000, c.GetSignalHistoryLimit())
	require.False(t, c.GetNormalizePostSignals())
	require.True(t, c.GetNormalizeGetSignals())
	require.True(t, c.GetAllowedOrigins().IsAllowedOrigin("*"))
	require.Empty(t, c.GetKafkaBrokers())
	require.Equal(t, "sova.signals", c.GetKafkaSignalTopic())
	require.Empty(t, c.GetRedisAddr())
	require.Equal(t, 0, c.GetRedisDB())
	require.Equal(t, "sova:signals", c.GetRedisSignalChannel())
	require.Empty(t, c.GetOtlpEndpoint())
}

func TestOverrides(t *testing.T) {
	t.Setenv("PORT", ":8080")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("MAX_DEVICES", "3")
	t.Setenv("SESSION_IDLE_TIMEOUT", "10m")
	t.Setenv("SIGNAL_NORMALIZE_POST", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "true")
	c := config.New()

	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, "debug", c.GetLogLevel())
	require.Equal(t, 3, c.GetMaxDevices())
	require.Equal(t, 10*time.Minute, c.GetSessionIdleTimeout())
	require.True(t, c.GetNormalizePostSignals())
	require.Len(t, c.GetAllowedOrigins(), 2)
	require.True(t, c.GetAllowedOrigins().IsAllowedOrigin("https://b.example.com"))
	require.Equal(t, []string{"k1:9092", "k2:9092"}, c.GetKafkaBrokers())
	require.True(t, c.GetOtlpInsecure())
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("MAX_DEVICES", "-1")
	t.Setenv("TOKEN_TTL", "soon")
	t.Setenv("SIGNAL_HISTORY_LIMIT", "lots")
	t.Setenv("SIGNAL_NORMALIZE_GET", "maybe")
	c := config.New()

	require.Equal(t, 2, c.GetMaxDevices())
	require.Equal(t, 24*time.Hour, c.GetTokenTTL())
	require.Equal(t, 1000, c.GetSignalHistoryLimit())
	require.True(t, c.GetNormalizeGetSignals())
}
