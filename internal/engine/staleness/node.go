package staleness

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stale/internal/adapters/fs" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/stale/internal/core/ports"
)

// NodeID is the unique identifier for the staleness engine Graft node.
const NodeID graft.ID = "engine.staleness"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.FactoryNodeID},
		Run: func(ctx context.Context) (*Engine, error) {
			factory, err := graft.Dep[ports.FileSystemFactory](ctx)
			if err != nil {
				return nil, err
			}
			return NewEngine(factory), nil
		},
	})
}
