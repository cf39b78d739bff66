package snapshot

import "errors"

// ErrInvalidArgument reports an absent required parameter at a call boundary.
// The diff, store, and monitor packages return this same sentinel.
var ErrInvalidArgument = errors.New("invalid argument")
