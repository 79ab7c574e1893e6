package dispatcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/native" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/buildcache"
	"go.trai.ch/forge/internal/engine/fastpath"
	"go.trai.ch/forge/internal/engine/resolver"
)

// NodeID is the unique identifier for the dispatcher Graft node.
const NodeID graft.ID = "engine.dispatcher"

func init() {
	graft.Register(graft.Node[*Dispatcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			resolver.NodeID,
			fastpath.NodeID,
			buildcache.NodeID,
			native.BuilderNodeID,
		},
		Run: func(ctx context.Context) (*Dispatcher, error) {
			res, err := graft.Dep[*resolver.Resolver](ctx)
			if err != nil {
				return nil, err
			}

			fast, err := graft.Dep[*fastpath.Registry](ctx)
			if err != nil {
				return nil, err
			}

			cache, err := graft.Dep[*buildcache.Cache](ctx)
			if err != nil {
				return nil, err
			}

			builder, err := graft.Dep[ports.ArtifactBuilder](ctx)
			if err != nil {
				return nil, err
			}

			return New(res, fast, cache, builder), nil
		},
	})
}
