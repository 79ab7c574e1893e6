package progrock

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/logger" //nolint:depguard // Build output goes to the logger
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the build recorder node.
const NodeID graft.ID = "adapter.progrock"

func init() {
	graft.Register(graft.Node[ports.BuildRecorder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.BuildRecorder, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(log), nil
		},
	})
}
