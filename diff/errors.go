package diff

import "github.com/tailored-agentic-units/listmonitor/snapshot"

// ErrInvalidArgument is returned when a snapshot or equality strategy is
// absent. It is the same sentinel as snapshot.ErrInvalidArgument.
var ErrInvalidArgument = snapshot.ErrInvalidArgument
