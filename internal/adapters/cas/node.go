package cas

import (
	"context"
	"os"
	"path/filepath"

	"github.com/grindlemire/graft"
	//nolint:depguard // Store location comes from the project configuration
	"go.trai.ch/forge/internal/adapters/config"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// NodeID is the unique identifier for the artifact store Graft node.
const NodeID graft.ID = "adapter.artifact_store"

func init() {
	graft.Register(graft.Node[ports.ArtifactStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.ArtifactStore, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			cwd, err := os.Getwd()
			if err != nil {
				return nil, zerr.Wrap(err, "failed to get working directory")
			}

			cfg, err := loader.Load(cwd)
			if err != nil {
				return nil, err
			}

			if !cfg.Persist {
				return NewMemoryStore(), nil
			}

			root := cfg.ArtifactDir
			if !filepath.IsAbs(root) {
				root = filepath.Join(cwd, root)
			}
			return NewStore(root), nil
		},
	})
}
