package observability

// Monitor lifecycle events.
//
// Every cycle emits EventCycleStart and then exactly one of the terminal
// events: EventCycleNoData, EventCycleNoResult, EventCycleUnchanged,
// EventChangesApplied, or EventCycleError. Terminal events other than
// EventCycleError carry DataOutcome, DataEntries, and DataDuration.
//
// EventStoreSeeded is emitted outside any cycle, when a baseline is loaded
// into the store. It carries DataEntries.
const (
	EventRunStart EventType = "monitor.run.start"
	EventRunStop  EventType = "monitor.run.stop"

	EventStoreSeeded EventType = "monitor.store.seeded"

	EventCycleStart     EventType = "monitor.cycle.start"
	EventCycleNoData    EventType = "monitor.cycle.no_data"
	EventCycleNoResult  EventType = "monitor.cycle.no_result"
	EventCycleUnchanged EventType = "monitor.cycle.unchanged"
	EventChangesApplied EventType = "monitor.changes.applied"
	EventCycleError     EventType = "monitor.cycle.error"
)
