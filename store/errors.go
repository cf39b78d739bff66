package store

import "github.com/tailored-agentic-units/listmonitor/snapshot"

// ErrInvalidArgument is returned for a nil record, store, or change set.
var ErrInvalidArgument = snapshot.ErrInvalidArgument
