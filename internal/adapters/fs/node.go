package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stale/internal/core/ports"
)

// FactoryNodeID is the unique identifier for the filesystem factory Graft node.
const FactoryNodeID graft.ID = "adapter.fs.factory"

func init() {
	graft.Register(graft.Node[ports.FileSystemFactory]{
		ID:        FactoryNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FileSystemFactory, error) {
			return NewFactory(), nil
		},
	})
}
