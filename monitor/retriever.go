package monitor

import (
	"cmp"
	"context"

	"github.com/tailored-agentic-units/listmonitor/diff"
	"github.com/tailored-agentic-units/listmonitor/snapshot"
)

// Retriever produces the latest snapshot of the monitored list. A nil
// snapshot with a nil error means no new data is available this cycle.
type Retriever[K cmp.Ordered, R snapshot.Record[K]] interface {
	Fetch(ctx context.Context) (*snapshot.Snapshot[K, R], error)
}

// RetrieverFunc adapts a function to Retriever.
type RetrieverFunc[K cmp.Ordered, R snapshot.Record[K]] func(ctx context.Context) (*snapshot.Snapshot[K, R], error)

// Fetch calls f(ctx).
func (f RetrieverFunc[K, R]) Fetch(ctx context.Context) (*snapshot.Snapshot[K, R], error) {
	return f(ctx)
}

// Differ compares the stored records against the latest snapshot. A nil
// change set with a nil error skips the cycle. *diff.Engine satisfies it.
type Differ[R any] interface {
	Diff(ctx context.Context, old, latest snapshot.Source[R]) (*diff.ChangeSet[R], error)
}
