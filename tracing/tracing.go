// Package tracing is a thin wrapper around OpenTelemetry so the rest of the
// code base can start and annotate spans without importing the upstream
// packages.  Until Init is called the global provider is a no-op, so
// instrumented code costs nothing in hosts that do not care.
package tracing

import (
	"context"
	"io"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/viant/kernos"

var (
	providerOnce sync.Once
	providerErr  error
)

// Init installs a stdout exporter as the global trace provider.  When
// outputFile is empty spans go to os.Stdout.  The first successful
// initialisation wins; later calls are no-ops.
func Init(serviceName, serviceVersion, outputFile string) error {
	var w io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return err
		}
		w = f
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return err
	}
	return InitWithExporter(serviceName, serviceVersion, exporter)
}

// InitWithExporter installs an arbitrary SpanExporter as the global
// provider.  The first successful initialisation wins.
func InitWithExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) error {
	if exporter == nil {
		return nil
	}
	providerOnce.Do(func() {
		res, err := resource.New(context.Background(),
			resource.WithAttributes(
				attribute.String("service.name", serviceName),
				attribute.String("service.version", serviceVersion),
			),
		)
		if err != nil {
			providerErr = err
			return
		}
		otel.SetTracerProvider(sdktrace.NewTracerProvider(
			sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
			sdktrace.WithResource(res),
		))
	})
	return providerErr
}

// Span wraps trace.Span so callers never import the upstream package.
type Span struct {
	span trace.Span
}

// Start begins a span with the given string attributes.
func Start(ctx context.Context, name string, attrs map[string]string) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	kv := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		kv = append(kv, attribute.String(k, v))
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(kv...))
	return ctx, &Span{span: span}
}

// Error records an error status on the span.
func (s *Span) Error(message string) {
	if s == nil || s.span == nil {
		return
	}
	s.span.SetStatus(codes.Error, message)
}

// WithAttributes attaches attributes to the span and returns it for
// chaining.
func (s *Span) WithAttributes(attrs map[string]string) *Span {
	if s == nil || s.span == nil || len(attrs) == 0 {
		return s
	}
	kv := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		kv = append(kv, attribute.String(k, v))
	}
	s.span.SetAttributes(kv...)
	return s
}

// End completes the span.
func (s *Span) End() {
	if s == nil || s.span == nil {
		return
	}
	s.span.End()
}
