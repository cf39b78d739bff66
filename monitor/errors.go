package monitor

import (
	"errors"

	"github.com/tailored-agentic-units/listmonitor/snapshot"
)

var (
	// ErrInvalidArgument is the shared invalid-argument sentinel.
	ErrInvalidArgument = snapshot.ErrInvalidArgument

	// ErrAlreadyRunning is returned by Run while another Run on the same
	// Monitor is active.
	ErrAlreadyRunning = errors.New("monitor already running")
)
