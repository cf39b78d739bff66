// Package monitor drives the fetch, diff, apply, notify cycle that keeps a
// snapshot store in step with an external list.
//
// A cycle fetches the latest snapshot, diffs it against the store, applies
// any changes to the store, and then notifies change listeners:
//
//	m, err := monitor.New[int, *sdn.Entry](retriever, engine, store.NewMemory[int, *sdn.Entry]())
//	m.OnChange(func(ctx context.Context, n monitor.Notification) { ... })
//	err = m.Run(ctx)
//
// Run stops at the first failed cycle and returns its error unmodified.
// Retrying is left to the caller.
package monitor

import (
	"cmp"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tailored-agentic-units/listmonitor/observability"
	"github.com/tailored-agentic-units/listmonitor/snapshot"
	"github.com/tailored-agentic-units/listmonitor/store"
)

// Monitor keeps a store synchronized with the records produced by a
// Retriever. A Monitor is the store's only writer.
type Monitor[K cmp.Ordered, R snapshot.Record[K]] struct {
	retriever Retriever[K, R]
	differ    Differ[R]
	store     store.Store[K, R]
	opts      options

	running atomic.Bool
	cycleMu sync.Mutex

	mu        sync.RWMutex
	listeners []ChangeFunc
	status    Status
}

// New creates a Monitor. Nil collaborators and a non-positive interval are
// ErrInvalidArgument.
func New[K cmp.Ordered, R snapshot.Record[K]](
	retriever Retriever[K, R],
	differ Differ[R],
	s store.Store[K, R],
	opts ...Option,
) (*Monitor[K, R], error) {
	if snapshot.IsNil(retriever) {
		return nil, fmt.Errorf("%w: nil retriever", ErrInvalidArgument)
	}
	if snapshot.IsNil(differ) {
		return nil, fmt.Errorf("%w: nil differ", ErrInvalidArgument)
	}
	if snapshot.IsNil(s) {
		return nil, fmt.Errorf("%w: nil store", ErrInvalidArgument)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.interval <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive, got %s", ErrInvalidArgument, o.interval)
	}

	m := &Monitor[K, R]{
		retriever: retriever,
		differ:    differ,
		store:     s,
		opts:      o,
	}
	m.status = Status{
		Source:   o.source,
		Interval: o.interval,
		Entries:  s.Len(),
	}
	return m, nil
}

// Source returns the monitored list name.
func (m *Monitor[K, R]) Source() string {
	return m.opts.source
}

// OnChange registers fn to run after every applied change set. Listeners run
// in registration order.
func (m *Monitor[K, R]) OnChange(fn ChangeFunc) error {
	if fn == nil {
		return fmt.Errorf("%w: nil change listener", ErrInvalidArgument)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
	return nil
}

// Run performs cycles every interval until ctx is cancelled or a cycle fails.
// It returns ctx.Err() on cancellation, the failing step's error otherwise,
// and ErrAlreadyRunning if another Run is active.
func (m *Monitor[K, R]) Run(ctx context.Context) error {
	if !m.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer m.running.Store(false)

	m.emit(ctx, observability.EventRunStart, observability.LevelInfo, map[string]any{
		"interval": m.opts.interval,
	})

	err := Every(ctx, m.opts.interval, func(ctx context.Context) error {
		_, err := m.Check(ctx)
		return err
	})

	data := map[string]any{}
	level := observability.LevelInfo
	if err != nil {
		data[observability.DataError] = err.Error()
		if ctx.Err() == nil {
			level = observability.LevelError
		}
	}
	m.emit(context.WithoutCancel(ctx), observability.EventRunStop, level, data)

	return err
}

// Check performs one cycle. The monitor does not wrap errors from the
// retriever, differ, or store. A fetch or diff failure leaves the store
// untouched; an apply failure may leave it partially updated. Check calls
// are serialized with each other and with Run.
func (m *Monitor[K, R]) Check(ctx context.Context) (CycleResult, error) {
	m.cycleMu.Lock()
	defer m.cycleMu.Unlock()

	if err := ctx.Err(); err != nil {
		return CycleResult{}, err
	}

	start := m.opts.now()
	result := CycleResult{ID: uuid.Must(uuid.NewV7()).String()}

	ctx, span := m.opts.tracer.Start(ctx, "monitor.cycle",
		trace.WithAttributes(
			attribute.String("listmonitor.source", m.opts.source),
			attribute.String("listmonitor.cycle_id", result.ID),
		))
	defer span.End()

	m.emit(ctx, observability.EventCycleStart, observability.LevelVerbose, map[string]any{
		observability.DataCycleID: result.ID,
	})

	latest, err := m.retriever.Fetch(ctx)
	if err != nil {
		return m.fail(ctx, span, result, start, StepFetch, err)
	}
	if latest == nil {
		return m.complete(ctx, span, result, start, OutcomeNoData), nil
	}

	cs, err := m.differ.Diff(ctx, m.store, latest)
	if err != nil {
		return m.fail(ctx, span, result, start, StepDiff, err)
	}
	if cs == nil {
		return m.complete(ctx, span, result, start, OutcomeNoResult), nil
	}
	if !cs.Changed() {
		return m.complete(ctx, span, result, start, OutcomeUnchanged), nil
	}

	if _, err := store.Apply[K, R](m.store, cs); err != nil {
		return m.fail(ctx, span, result, start, StepApply, err)
	}

	result.Summary = cs.Summary()
	result = m.complete(ctx, span, result, start, OutcomeChanged)

	m.notify(ctx, Notification{
		Source:  m.opts.source,
		CycleID: result.ID,
		Summary: result.Summary,
		At:      start.Add(result.Duration),
	})

	return result, nil
}

// Seed fetches once and loads the result into the store as a baseline,
// without diffing or notifying listeners. A fetch with no data leaves the
// store as it is. It returns the number of entries in the store. Seed waits
// for any cycle in flight.
func (m *Monitor[K, R]) Seed(ctx context.Context) (int, error) {
	m.cycleMu.Lock()
	defer m.cycleMu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	latest, err := m.retriever.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	if latest != nil {
		if err := m.store.Seed(latest); err != nil {
			return 0, err
		}
	}

	entries := m.store.Len()
	m.mu.Lock()
	m.status.Entries = entries
	m.mu.Unlock()

	m.emit(ctx, observability.EventStoreSeeded, observability.LevelInfo, map[string]any{
		observability.DataEntries: entries,
	})
	return entries, nil
}

// Status returns the current monitor status.
func (m *Monitor[K, R]) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.status
	s.Running = m.running.Load()
	return s
}

func (m *Monitor[K, R]) complete(ctx context.Context, span trace.Span, result CycleResult, start time.Time, outcome Outcome) CycleResult {
	end := m.opts.now()
	result.Outcome = outcome
	result.Duration = end.Sub(start)
	entries := m.store.Len()

	span.SetAttributes(
		attribute.String("listmonitor.outcome", string(outcome)),
		attribute.Int("listmonitor.added", result.Summary.Added),
		attribute.Int("listmonitor.removed", result.Summary.Removed),
		attribute.Int("listmonitor.modified", result.Summary.Modified),
		attribute.Int("listmonitor.entries", entries),
	)

	m.mu.Lock()
	m.status.Cycles++
	m.status.Entries = entries
	m.status.LastCycleID = result.ID
	m.status.LastOutcome = outcome
	m.status.LastCycleAt = end
	m.status.LastError = ""
	if outcome == OutcomeChanged {
		m.status.Changes++
		m.status.LastChange = result.Summary
		m.status.LastChangeAt = end
	}
	m.mu.Unlock()

	data := map[string]any{
		observability.DataCycleID:  result.ID,
		observability.DataOutcome:  string(outcome),
		observability.DataEntries:  entries,
		observability.DataDuration: result.Duration,
	}

	eventType := observability.EventCycleUnchanged
	level := observability.LevelVerbose
	switch outcome {
	case OutcomeNoData:
		eventType = observability.EventCycleNoData
	case OutcomeNoResult:
		eventType = observability.EventCycleNoResult
	case OutcomeChanged:
		eventType = observability.EventChangesApplied
		level = observability.LevelInfo
		data[observability.DataAdded] = result.Summary.Added
		data[observability.DataRemoved] = result.Summary.Removed
		data[observability.DataModified] = result.Summary.Modified
	}
	m.emitAt(ctx, end, eventType, level, data)

	return result
}

func (m *Monitor[K, R]) fail(ctx context.Context, span trace.Span, result CycleResult, start time.Time, step Step, err error) (CycleResult, error) {
	end := m.opts.now()
	result.Duration = end.Sub(start)

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String("listmonitor.step", string(step)))

	m.mu.Lock()
	m.status.LastCycleID = result.ID
	m.status.LastCycleAt = end
	m.status.LastError = fmt.Sprintf("%s: %v", step, err)
	m.mu.Unlock()

	m.emitAt(ctx, end, observability.EventCycleError, observability.LevelError, map[string]any{
		observability.DataCycleID:  result.ID,
		observability.DataStep:     string(step),
		observability.DataError:    err.Error(),
		observability.DataDuration: result.Duration,
	})

	return result, err
}

func (m *Monitor[K, R]) notify(ctx context.Context, n Notification) {
	m.mu.RLock()
	listeners := make([]ChangeFunc, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.RUnlock()

	for _, fn := range listeners {
		fn(ctx, n)
	}
}

func (m *Monitor[K, R]) emit(ctx context.Context, t observability.EventType, level observability.Level, data map[string]any) {
	m.emitAt(ctx, m.opts.now(), t, level, data)
}

func (m *Monitor[K, R]) emitAt(ctx context.Context, at time.Time, t observability.EventType, level observability.Level, data map[string]any) {
	m.opts.observer.OnEvent(ctx, observability.Event{
		Type:      t,
		Level:     level,
		Timestamp: at,
		Source:    m.opts.source,
		Data:      data,
	})
}
