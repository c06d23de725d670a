package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stale/internal/adapters/logger"
	"go.trai.ch/stale/internal/adapters/telemetry/progrock"
	"go.trai.ch/stale/internal/core/ports"
)

// NodeID is the unique identifier for the Telemetry adapter Graft node.
const NodeID graft.ID = "adapter.telemetry"

// TracerName is the OpenTelemetry instrumentation name.
const TracerName = "stale"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, progrock.NodeID},
		Run: func(ctx context.Context) (ports.Telemetry, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			recorder, err := graft.Dep[*progrock.Recorder](ctx)
			if err != nil {
				return nil, err
			}

			return NewFanout(recorder, NewOTelTracer(TracerName, NewLogBridge(log))), nil
		},
	})
}
