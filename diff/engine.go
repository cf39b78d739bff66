// Package diff computes the symmetric difference of two key-ordered record
// sources in a single merge pass.
//
// Both sides must yield strictly ascending keys. The merge walks them with one
// cursor each:
//
//	old key <  new key   old record removed, advance old
//	old key == new key   modified if the equality strategy says unequal, advance both
//	old key >  new key   new record added, advance new
//
// and then drains whichever side still has records. A key present on both
// sides never lands in Added or Removed, whatever its payload.
package diff

import (
	"cmp"
	"context"
	"fmt"
	"iter"

	"github.com/tailored-agentic-units/listmonitor/snapshot"
)

// ctx is polled once per this many merge steps.
const cancelCheckInterval = 1024

// Engine diffs sources with a fixed equality strategy.
type Engine[K cmp.Ordered, R snapshot.Record[K]] struct {
	equal snapshot.Equal[R]
}

// NewEngine creates an Engine. Returns ErrInvalidArgument when equal is nil.
func NewEngine[K cmp.Ordered, R snapshot.Record[K]](equal snapshot.Equal[R]) (*Engine[K, R], error) {
	if equal == nil {
		return nil, fmt.Errorf("%w: nil equality strategy", ErrInvalidArgument)
	}
	return &Engine[K, R]{equal: equal}, nil
}

// Diff classifies every record of old and latest.
func (e *Engine[K, R]) Diff(ctx context.Context, old, latest snapshot.Source[R]) (*ChangeSet[R], error) {
	return Diff[K, R](ctx, old, latest, e.equal)
}

// Diff classifies every record of old and latest using equal for same-key pairs.
// Runs in O(len(old)+len(latest)). Returns ErrInvalidArgument when either
// source or equal is nil, and ctx.Err() if ctx is cancelled mid-merge.
func Diff[K cmp.Ordered, R snapshot.Record[K]](ctx context.Context, old, latest snapshot.Source[R], equal snapshot.Equal[R]) (*ChangeSet[R], error) {
	if snapshot.IsNil(old) {
		return nil, fmt.Errorf("%w: nil old snapshot", ErrInvalidArgument)
	}
	if snapshot.IsNil(latest) {
		return nil, fmt.Errorf("%w: nil latest snapshot", ErrInvalidArgument)
	}
	if equal == nil {
		return nil, fmt.Errorf("%w: nil equality strategy", ErrInvalidArgument)
	}

	nextOld, stopOld := iter.Pull(old.Entries())
	defer stopOld()
	nextNew, stopNew := iter.Pull(latest.Entries())
	defer stopNew()

	cs := &ChangeSet[R]{}
	o, hasOld := nextOld()
	n, hasNew := nextNew()

	for step := 0; hasOld && hasNew; step++ {
		if step%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		switch c := cmp.Compare(o.Key(), n.Key()); {
		case c < 0:
			cs.Removed = append(cs.Removed, o)
			o, hasOld = nextOld()
		case c > 0:
			cs.Added = append(cs.Added, n)
			n, hasNew = nextNew()
		default:
			if !equal(o, n) {
				cs.Modified = append(cs.Modified, n)
			}
			o, hasOld = nextOld()
			n, hasNew = nextNew()
		}
	}

	for ; hasOld; o, hasOld = nextOld() {
		cs.Removed = append(cs.Removed, o)
	}
	for ; hasNew; n, hasNew = nextNew() {
		cs.Added = append(cs.Added, n)
	}

	return cs, nil
}
