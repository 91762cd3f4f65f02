package telemetry_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-signal-server/internal/config"
	"github.com/jrsteele09/go-signal-server/internal/telemetry"
	"github.com/stretchr/testify/require"
)

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	shutdown, err := telemetry.Setup(context.Background(), config.New(), "test")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	require.NoError(t, shutdown(context.Background()))
}

func TestSetup_WithEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "true")

	// The gRPC exporter connects lazily so no collector is needed
	shutdown, err := telemetry.Setup(context.Background(), config.New(), "test")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
}
