package telemetry

import "go.trai.ch/forge/internal/core/ports"

// TracerFromEnv exposes tracerFromEnv for testing.
func TracerFromEnv(getenv func(string) string, log ports.Logger) *OTelTracer {
	return tracerFromEnv(getenv, log)
}
