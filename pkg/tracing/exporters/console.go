package exporters

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ConsoleExporter discards spans. It keeps the tracer provider wiring intact
// when no collector endpoint is configured.
type ConsoleExporter struct{}

var _ sdktrace.SpanExporter = (*ConsoleExporter)(nil)

func (c *ConsoleExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	return nil
}

func (c *ConsoleExporter) Shutdown(ctx context.Context) error {
	return nil
}
