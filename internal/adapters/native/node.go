package native

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/cas"                //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/forge/internal/adapters/logger"             //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/forge/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/forge/internal/core/ports"
)

const (
	// BuilderNodeID is the unique identifier for the artifact builder Graft node.
	BuilderNodeID graft.ID = "adapter.native.builder"
	// PrebuiltNodeID is the unique identifier for the prebuilt artifact provider Graft node.
	PrebuiltNodeID graft.ID = "adapter.native.prebuilt"
)

func init() {
	graft.Register(graft.Node[ports.ArtifactBuilder]{
		ID:        BuilderNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{cas.NodeID, progrock.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.ArtifactBuilder, error) {
			store, err := graft.Dep[ports.ArtifactStore](ctx)
			if err != nil {
				return nil, err
			}

			recorder, err := graft.Dep[ports.BuildRecorder](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewBuilder(store, recorder, log, os.Stderr), nil
		},
	})

	graft.Register(graft.Node[ports.PrebuiltProvider]{
		ID:        PrebuiltNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.PrebuiltProvider, error) {
			return NewPrebuilt(os.Stderr), nil
		},
	})
}
