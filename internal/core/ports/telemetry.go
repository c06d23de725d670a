package ports

import (
	"context"

	"go.trai.ch/stale/internal/core/domain"
)

// Telemetry records the progress of staleness checks.
//
//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks
type Telemetry interface {
	// Record starts a vertex for a unit of work.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes the recording session.
	Close() error
}

// Vertex represents one recorded unit of work.
type Vertex interface {
	// Log records a message against the vertex.
	Log(msg string)
	// Complete marks the vertex as finished, successfully when err is nil.
	Complete(err error)
	// Cached marks the vertex as skipped because its output is up to date.
	Cached()
}

// Summarizer is implemented by telemetry backends that keep totals of the
// vertices they recorded.
type Summarizer interface {
	// Summary returns the totals, or false when nothing keeps them.
	Summary() (domain.RunSummary, bool)
}
