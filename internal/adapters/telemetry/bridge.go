package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/forge/internal/core/ports"
)

// LogBridge implements sdktrace.SpanProcessor, writing every ended span to a logger at debug level.
type LogBridge struct {
	logger ports.Logger
}

// NewLogBridge returns a new LogBridge.
func NewLogBridge(logger ports.Logger) *LogBridge {
	return &LogBridge{logger: logger}
}

// OnStart does nothing; spans are reported once they end.
func (b *LogBridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd logs the span name, duration, attributes and failure description.
func (b *LogBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || !s.SpanContext().IsValid() {
		return
	}

	var msg strings.Builder
	took := s.EndTime().Sub(s.StartTime()).Round(time.Microsecond)
	fmt.Fprintf(&msg, "span %q took %s", s.Name(), took)
	for _, kv := range s.Attributes() {
		fmt.Fprintf(&msg, " %s=%s", kv.Key, kv.Value.Emit())
	}
	if status := s.Status(); status.Code == codes.Error {
		fmt.Fprintf(&msg, " error=%q", status.Description)
	}
	b.logger.Debug(msg.String())
}

// ForceFlush does nothing.
func (b *LogBridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *LogBridge) Shutdown(_ context.Context) error {
	return nil
}
