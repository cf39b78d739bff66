// Package observability carries monitor lifecycle events to logs, metrics,
// and time-series exporters. Severity levels use OpenTelemetry
// SeverityNumber values so events forward to an OTel collector unchanged.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level is an event severity on the OTel SeverityNumber scale (1-24).
type Level int

const (
	LevelVerbose Level = 5  // DEBUG range 5-8
	LevelInfo    Level = 9  // INFO range 9-12
	LevelWarning Level = 13 // WARN range 13-16
	LevelError   Level = 17 // ERROR range 17-20
)

// String returns the OTel severity text for the level.
func (l Level) String() string {
	switch {
	case l <= 4:
		return "TRACE"
	case l <= 8:
		return "DEBUG"
	case l <= 12:
		return "INFO"
	case l <= 16:
		return "WARN"
	case l <= 20:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// SlogLevel converts l for slog emission. TRACE folds into Debug and FATAL
// into Error.
func (l Level) SlogLevel() slog.Level {
	switch {
	case l <= 8:
		return slog.LevelDebug
	case l <= 12:
		return slog.LevelInfo
	case l <= 16:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// EventType names an event, dot-separated by subsystem
// ("monitor.cycle.complete").
type EventType string

// Event is one lifecycle occurrence. Source identifies the emitting instance
// (the monitored list's name). Data keys are the Data* constants where they
// apply, so metric observers can read them without knowing the emitter.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Well-known Data keys.
const (
	DataCycleID  = "cycle_id"
	DataOutcome  = "outcome"
	DataAdded    = "added"
	DataRemoved  = "removed"
	DataModified = "modified"
	DataEntries  = "entries"
	DataDuration = "duration"
	DataStep     = "step"
	DataError    = "error"
)

// Observer receives events. OnEvent is called synchronously on the emitting
// goroutine and must not block for long.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, event Event)

func (f ObserverFunc) OnEvent(ctx context.Context, event Event) {
	f(ctx, event)
}

func intData(event Event, key string) (int, bool) {
	v, ok := event.Data[key].(int)
	return v, ok
}
