package fastpath

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/native" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/resolver"
)

// NodeID is the unique identifier for the fast path registry Graft node.
const NodeID graft.ID = "engine.fastpath"

func init() {
	graft.Register(graft.Node[*Registry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{resolver.NodeID, native.PrebuiltNodeID},
		Run: func(ctx context.Context) (*Registry, error) {
			res, err := graft.Dep[*resolver.Resolver](ctx)
			if err != nil {
				return nil, err
			}

			provider, err := graft.Dep[ports.PrebuiltProvider](ctx)
			if err != nil {
				return nil, err
			}

			reg := NewRegistry()
			if err := Seed(reg, res, provider); err != nil {
				return nil, err
			}
			return reg, nil
		},
	})
}
