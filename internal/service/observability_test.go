package service

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/alexanderramin/charstack/internal/domain"
	"github.com/alexanderramin/charstack/internal/testutil"
	"github.com/alexanderramin/charstack/internal/tracing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingObserver) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Name
	}
	return out
}

func TestObserver_ReceivesMutatingUseCases(t *testing.T) {
	rec := &recordingObserver{}
	clock := testutil.NewClock(testutil.FixedNow)
	svc := NewTaskService(testutil.NewTestStore(t), WithClock(clock.Now), WithObserver(rec))
	ctx := context.Background()

	task := mustCreate(t, svc, placed("observed", domain.RegionMorning, domain.BucketMust))
	require.Error(t, svc.Create(ctx, placed("rejected", domain.RegionMorning, domain.BucketMust)))
	require.NoError(t, svc.ToggleCompletion(ctx, task.ID))
	_, err := svc.PerformDayRollover(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"create-task", "create-task", "toggle-task-completion", "day-rollover"}, rec.names())
	assert.True(t, rec.events[0].Success)
	assert.Equal(t, task.ID, rec.events[0].Fields["task_id"])
	assert.False(t, rec.events[1].Success)
	assert.ErrorIs(t, rec.events[1].Err, domain.ErrBucketFull)
	assert.Equal(t, "done", rec.events[2].Fields["status"])
	assert.Equal(t, 0, rec.events[3].Fields["moved"])
}

func TestLogUseCaseObserver_WritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	svc := NewTaskService(testutil.NewTestStore(t), WithObserver(NewLogUseCaseObserver(&buf)))

	require.NoError(t, svc.Create(context.Background(), testutil.NewTestTask("logged")))
	err := svc.Delete(context.Background(), "nope")
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "msg=service_use_case")
	assert.Contains(t, out, "use_case=create-task")
	assert.Contains(t, out, "success=true")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "use_case=delete-task")
	assert.Contains(t, out, `error="task not found: nope"`)
}

func TestNewLogUseCaseObserver_NilWriterIsNoop(t *testing.T) {
	assert.Equal(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
	assert.Equal(t, NoopUseCaseObserver{}, NewSlogUseCaseObserver(nil))
}

func TestMultiObserver(t *testing.T) {
	a, b := &recordingObserver{}, &recordingObserver{}

	assert.Equal(t, NoopUseCaseObserver{}, MultiObserver())
	assert.Equal(t, NoopUseCaseObserver{}, MultiObserver(nil, NoopUseCaseObserver{}))
	assert.Same(t, a, MultiObserver(nil, a))

	MultiObserver(a, nil, b).ObserveUseCase(context.Background(), UseCaseEvent{Name: "x"})
	assert.Equal(t, []string{"x"}, a.names())
	assert.Equal(t, []string{"x"}, b.names())
}

func TestTraceUseCaseObserver_ExportsSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp, err := tracing.NewProvider("charstack", "test", exporter)
	require.NoError(t, err)

	svc := NewTaskService(testutil.NewTestStore(t), WithObserver(NewTraceUseCaseObserver(tp)))
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, testutil.NewTestTask("traced")))
	require.Error(t, svc.ToggleCompletion(ctx, "missing"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "charstack.create-task", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assert.Equal(t, "charstack.toggle-task-completion", spans[1].Name)
	assert.Equal(t, codes.Error, spans[1].Status.Code)
}
