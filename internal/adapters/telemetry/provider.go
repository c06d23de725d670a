// Package telemetry provides the OpenTelemetry, fan-out and no-op telemetry adapters.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/stale/internal/core/ports"
)

// CachedAttribute marks a span whose source needed no rebuild.
const CachedAttribute = attribute.Key("stale.cached")

var _ ports.Telemetry = (*OTelTracer)(nil)

// OTelTracer implements ports.Telemetry with OpenTelemetry spans.
type OTelTracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewOTelTracer creates a tracer with its own provider feeding the given processors.
func NewOTelTracer(name string, processors ...sdktrace.SpanProcessor) *OTelTracer {
	opts := make([]sdktrace.TracerProviderOption, 0, len(processors))
	for _, p := range processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}

	provider := sdktrace.NewTracerProvider(opts...)
	return &OTelTracer{
		provider: provider,
		tracer:   provider.Tracer(name),
	}
}

// Record starts a span named name.
func (t *OTelTracer) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	ctx, span := t.tracer.Start(ctx, name)
	return ctx, &OTelSpan{span: span}
}

// Close flushes and shuts down the provider.
func (t *OTelTracer) Close() error {
	return t.provider.Shutdown(context.Background())
}

// OTelSpan implements ports.Vertex on a span.
type OTelSpan struct {
	span trace.Span
}

// Log adds msg as a span event.
func (s *OTelSpan) Log(msg string) {
	s.span.AddEvent("log", trace.WithAttributes(attribute.String("message", msg)))
}

// Complete ends the span, recording err when set.
func (s *OTelSpan) Complete(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}
	s.span.End()
}

// Cached marks the span as a cache hit.
func (s *OTelSpan) Cached() {
	s.span.SetAttributes(CachedAttribute.Bool(true))
}
