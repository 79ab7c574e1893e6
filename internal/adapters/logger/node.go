package logger

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

// EnvLogLevel selects the initial log level. The --verbose flag lowers it to debug later.
const EnvLogLevel = "FORGE_LOG_LEVEL"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			return newFromEnv(os.Getenv), nil
		},
	})
}

func newFromEnv(getenv func(string) string) *Logger {
	l := New()
	if level, ok := domain.ParseLogLevel(getenv(EnvLogLevel)); ok {
		l.SetLevel(level)
	}
	return l
}
