// Package tracing wires OpenTelemetry so that engine use cases can be
// exported as spans. Without Init every span is a no-op.
package tracing

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName identifies spans produced by this module.
const InstrumentationName = "github.com/alexanderramin/charstack"

// ShutdownFunc flushes pending spans and releases the exporter.
type ShutdownFunc func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

var (
	providerOnce sync.Once
	providerErr  error
	shutdown     ShutdownFunc = noopShutdown
)

// Init installs a global tracer provider exporting to outputFile as JSON
// lines, or to stdout when outputFile is empty. Only the first call has any
// effect; later calls return the first result.
func Init(serviceName, serviceVersion, outputFile string) (ShutdownFunc, error) {
	var w io.Writer = os.Stdout
	var file *os.File
	if outputFile != "" {
		f, err := os.OpenFile(outputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return noopShutdown, err
		}
		w, file = f, f
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		if file != nil {
			file.Close()
		}
		return noopShutdown, err
	}

	stop, err := InitWithExporter(serviceName, serviceVersion, exporter)
	if err != nil || file == nil {
		return stop, err
	}
	return func(ctx context.Context) error {
		err := stop(ctx)
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		return err
	}, nil
}

// InitWithExporter installs a global tracer provider over exporter.
func InitWithExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) (ShutdownFunc, error) {
	if exporter == nil {
		return noopShutdown, nil
	}
	providerOnce.Do(func() {
		tp, err := NewProvider(serviceName, serviceVersion, exporter)
		if err != nil {
			providerErr = err
			return
		}
		otel.SetTracerProvider(tp)
		shutdown = tp.Shutdown
	})
	return shutdown, providerErr
}

// NewProvider builds a tracer provider that exports each span as it ends.
func NewProvider(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	), nil
}

// Tracer returns the module tracer from tp, or from the global provider when tp is nil.
func Tracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(InstrumentationName)
}

// Span wraps an OpenTelemetry span.
type Span struct {
	span trace.Span
}

// StartSpan starts an internal span on the global provider.
func StartSpan(ctx context.Context, name string) (context.Context, *Span) {
	ctx, span := Tracer(nil).Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
	return ctx, &Span{span: span}
}

// WithAttributes attaches attrs to the span.
func (s *Span) WithAttributes(attrs map[string]any) *Span {
	if s == nil || len(attrs) == 0 {
		return s
	}
	s.span.SetAttributes(Attributes(attrs)...)
	return s
}

// EndSpan records err (or OK) on the span and ends it.
func EndSpan(s *Span, err error) {
	if s == nil {
		return
	}
	setStatus(s.span, err)
	s.span.End()
}

// RecordSpan emits a finished span covering [start, end] after the fact.
func RecordSpan(ctx context.Context, tracer trace.Tracer, name string, start, end time.Time, attrs map[string]any, err error) {
	_, span := tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(start),
		trace.WithAttributes(Attributes(attrs)...),
	)
	setStatus(span, err)
	span.End(trace.WithTimestamp(end))
}

func setStatus(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
