package telemetry

import (
	"context"
	"os"
	"strings"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/logger" //nolint:depguard // Spans are reported through the logger
	"go.trai.ch/forge/internal/core/ports"
)

// TracerNodeID is the unique identifier for the Telemetry adapter Graft node.
const TracerNodeID graft.ID = "adapter.telemetry"

// EnvTrace disables span creation entirely when set to off, false or 0.
const EnvTrace = "FORGE_TRACE"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return tracerFromEnv(os.Getenv, log), nil
		},
	})
}

// tracerFromEnv returns a tracer whose ended spans are logged at debug level,
// or a no-op tracer when EnvTrace turns tracing off.
func tracerFromEnv(getenv func(string) string, log ports.Logger) *OTelTracer {
	switch strings.ToLower(strings.TrimSpace(getenv(EnvTrace))) {
	case "off", "false", "0":
		return NewNoOpTracer()
	default:
		return NewSDKTracer(NewLogBridge(log))
	}
}
