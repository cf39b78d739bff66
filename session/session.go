// Package session records the changes a monitor reports during one run, so
// recent list updates can be inspected without an external time-series
// store.
package session

import (
	"context"

	"github.com/tailored-agentic-units/listmonitor/monitor"
)

// Session holds the change notifications of one monitoring run, oldest
// first. Implementations must be safe for concurrent use.
type Session interface {
	// ID returns the unique session identifier.
	ID() string
	// Record appends a notification, evicting the oldest past the limit.
	Record(n monitor.Notification)
	// Changes returns a copy of the recorded notifications.
	Changes() []monitor.Notification
	// Clear drops every recorded notification.
	Clear()
}

// Listener adapts s to a monitor change listener.
func Listener(s Session) monitor.ChangeFunc {
	return func(_ context.Context, n monitor.Notification) {
		s.Record(n)
	}
}
