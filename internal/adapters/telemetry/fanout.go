package telemetry

import (
	"context"
	"errors"

	"go.trai.ch/stale/internal/core/domain"
	"go.trai.ch/stale/internal/core/ports"
)

var (
	_ ports.Telemetry  = (*Fanout)(nil)
	_ ports.Summarizer = (*Fanout)(nil)
)

// Fanout records every vertex on each of its backends.
type Fanout struct {
	backends []ports.Telemetry
}

// NewFanout creates a Fanout over backends.
func NewFanout(backends ...ports.Telemetry) *Fanout {
	return &Fanout{backends: backends}
}

// Record starts a vertex on every backend. The returned context is the one
// produced by the last backend.
func (f *Fanout) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	vertices := make(fanoutVertex, 0, len(f.backends))
	for _, b := range f.backends {
		var v ports.Vertex
		ctx, v = b.Record(ctx, name)
		vertices = append(vertices, v)
	}
	return ctx, vertices
}

// Close closes every backend and joins their errors.
func (f *Fanout) Close() error {
	var errs error
	for _, b := range f.backends {
		errs = errors.Join(errs, b.Close())
	}
	return errs
}

// Summary returns the totals of the first backend that keeps them.
func (f *Fanout) Summary() (domain.RunSummary, bool) {
	for _, b := range f.backends {
		if s, ok := b.(ports.Summarizer); ok {
			if summary, ok := s.Summary(); ok {
				return summary, true
			}
		}
	}
	return domain.RunSummary{}, false
}

type fanoutVertex []ports.Vertex

func (v fanoutVertex) Log(msg string) {
	for _, vertex := range v {
		vertex.Log(msg)
	}
}

func (v fanoutVertex) Complete(err error) {
	for _, vertex := range v {
		vertex.Complete(err)
	}
}

func (v fanoutVertex) Cached() {
	for _, vertex := range v {
		vertex.Cached()
	}
}
