// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/stale/internal/core/domain"
	"go.trai.ch/stale/internal/core/ports"
)

var (
	_ ports.Telemetry  = (*Recorder)(nil)
	_ ports.Summarizer = (*Recorder)(nil)
)

// Recorder implements the ports.Telemetry interface using the progrock library.
type Recorder struct {
	w    progrock.Writer
	tape *progrock.Tape
	rec  *progrock.Recorder
}

// New creates a new Recorder with a default tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a new Recorder with the given writer. Summaries are
// only available when w is a *progrock.Tape.
func NewRecorder(w progrock.Writer) *Recorder {
	tape, _ := w.(*progrock.Tape)
	return &Recorder{
		w:    w,
		tape: tape,
		rec:  progrock.NewRecorder(w),
	}
}

// Summary totals the vertices on the tape. A cached vertex is a fresh source,
// an errored or canceled one failed, and any other completed one is stale.
func (r *Recorder) Summary() (domain.RunSummary, bool) {
	if r.tape == nil {
		return domain.RunSummary{}, false
	}

	summary := domain.RunSummary{Duration: r.tape.Duration()}
	for _, v := range r.tape.Vertices() {
		summary.Total++
		switch {
		case v.Error != nil || v.Canceled:
			summary.Failed++
		case v.Cached:
			summary.Fresh++
		case v.Completed != nil:
			summary.Stale++
		}
	}
	return summary, true
}

// Record starts recording a new vertex named after the checked source.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	v := r.rec.Vertex(digest.FromString(name), name)
	return ctx, &Vertex{vertex: v}
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
