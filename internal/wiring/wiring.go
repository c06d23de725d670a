// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/stale/internal/adapters/config"
	_ "go.trai.ch/stale/internal/adapters/fs"
	_ "go.trai.ch/stale/internal/adapters/logger"
	_ "go.trai.ch/stale/internal/adapters/telemetry"
	_ "go.trai.ch/stale/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/stale/internal/app"
	_ "go.trai.ch/stale/internal/engine/staleness"
)
