package monitor

import (
	"context"
	"time"

	"github.com/tailored-agentic-units/listmonitor/diff"
)

// Outcome classifies a completed cycle.
type Outcome string

const (
	OutcomeNoData    Outcome = "no_data"
	OutcomeNoResult  Outcome = "no_result"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeChanged   Outcome = "changed"
)

// Step names the cycle step that failed.
type Step string

const (
	StepFetch Step = "fetch"
	StepDiff  Step = "diff"
	StepApply Step = "apply"
)

// CycleResult describes one completed Check.
type CycleResult struct {
	ID       string        `json:"id"`
	Outcome  Outcome       `json:"outcome"`
	Summary  diff.Summary  `json:"summary"`
	Duration time.Duration `json:"duration"`
}

// Notification is delivered to change listeners after a change set has been
// applied to the store.
type Notification struct {
	Source  string       `json:"source"`
	CycleID string       `json:"cycle_id"`
	Summary diff.Summary `json:"summary"`
	At      time.Time    `json:"at"`
}

// ChangeFunc receives change notifications. It runs synchronously on the
// monitor goroutine.
type ChangeFunc func(ctx context.Context, n Notification)

// Status is a point-in-time view of a Monitor.
type Status struct {
	Source       string        `json:"source"`
	Running      bool          `json:"running"`
	Interval     time.Duration `json:"interval"`
	Cycles       int64         `json:"cycles"`
	Changes      int64         `json:"changes"`
	Entries      int           `json:"entries"`
	LastCycleID  string        `json:"last_cycle_id,omitempty"`
	LastOutcome  Outcome       `json:"last_outcome,omitempty"`
	LastCycleAt  time.Time     `json:"last_cycle_at,omitzero"`
	LastChangeAt time.Time     `json:"last_change_at,omitzero"`
	LastChange   diff.Summary  `json:"last_change"`
	LastError    string        `json:"last_error,omitempty"`
}
