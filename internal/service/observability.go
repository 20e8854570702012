package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/charstack/internal/tracing"
	"go.opentelemetry.io/otel/trace"
)

// UseCaseEvent captures lightweight execution telemetry for a service use case.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes service use-case events to the provided writer.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return NewSlogUseCaseObserver(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

// NewSlogUseCaseObserver logs service use-case events through logger.
func NewSlogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]any, 0, 8+len(event.Fields)*2)
	attrs = append(attrs,
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "service_use_case", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "service_use_case", attrs...)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}

type traceUseCaseObserver struct {
	tracer trace.Tracer
}

// NewTraceUseCaseObserver exports each use-case event as a finished span.
// A nil provider uses the global one installed by tracing.Init.
func NewTraceUseCaseObserver(tp trace.TracerProvider) UseCaseObserver {
	return &traceUseCaseObserver{tracer: tracing.Tracer(tp)}
}

func (o *traceUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	tracing.RecordSpan(ctx, o.tracer, "charstack."+event.Name,
		event.StartedAt, event.StartedAt.Add(event.Duration), event.Fields, event.Err)
}

type multiUseCaseObserver []UseCaseObserver

// MultiObserver fans events out to every non-nil observer in order.
func MultiObserver(observers ...UseCaseObserver) UseCaseObserver {
	var kept multiUseCaseObserver
	for _, obs := range observers {
		if obs == nil {
			continue
		}
		if _, noop := obs.(NoopUseCaseObserver); noop {
			continue
		}
		kept = append(kept, obs)
	}
	switch len(kept) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return kept[0]
	}
	return kept
}

func (m multiUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	for _, obs := range m {
		obs.ObserveUseCase(ctx, event)
	}
}
