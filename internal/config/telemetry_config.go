package config

type TelemetryConfig interface {
	GetOtlpEndpoint() string
	GetOtlpInsecure() bool
}

type Telemetry struct{}

var _ TelemetryConfig = Telemetry{}

// GetOtlpEndpoint returns the OTLP gRPC collector address. Empty disables tracing.
func (Telemetry) GetOtlpEndpoint() string {
	return GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
}

func (Telemetry) GetOtlpInsecure() bool {
	return BoolEnv("OTEL_EXPORTER_OTLP_INSECURE", false)
}
