// Package snapshot defines the ordered record views that the diff engine
// merges. A Snapshot is sorted once at construction and read-only afterwards,
// so every consumer can walk it in ascending key order in a single pass.
package snapshot

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"slices"
)

// Record is a tracked entity with a unique, totally ordered identity. The
// payload is whatever else the concrete type carries.
type Record[K cmp.Ordered] interface {
	Key() K
}

// Source is any view that yields records in strictly ascending key order.
// Entries must be restartable: each call starts a fresh pass.
type Source[R any] interface {
	Entries() iter.Seq[R]
	Len() int
}

// Snapshot is an immutable, key-sorted sequence of records with no duplicate
// keys.
type Snapshot[K cmp.Ordered, R Record[K]] struct {
	entries []R
}

// New builds a Snapshot from records in any order. The input slice is not
// retained. Nil records are dropped, and when several records share a key the
// first one in input order is kept.
func New[K cmp.Ordered, R Record[K]](records []R) *Snapshot[K, R] {
	entries := make([]R, 0, len(records))
	for _, r := range records {
		if !IsNil(r) {
			entries = append(entries, r)
		}
	}

	slices.SortStableFunc(entries, func(a, b R) int {
		return cmp.Compare(a.Key(), b.Key())
	})
	entries = slices.CompactFunc(entries, func(a, b R) bool {
		return a.Key() == b.Key()
	})

	return &Snapshot[K, R]{entries: slices.Clip(entries)}
}

// Empty returns a Snapshot with no records.
func Empty[K cmp.Ordered, R Record[K]]() *Snapshot[K, R] {
	return &Snapshot[K, R]{}
}

// Collect drains a streamed producer and returns the sorted Snapshot. The
// first producer error stops the drain and is returned unmodified. ctx is
// checked between elements.
func Collect[K cmp.Ordered, R Record[K]](ctx context.Context, seq iter.Seq2[R, error]) (*Snapshot[K, R], error) {
	if seq == nil {
		return nil, fmt.Errorf("%w: nil record sequence", ErrInvalidArgument)
	}

	var records []R
	for r, err := range seq {
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	return New[K, R](records), nil
}

// Entries yields the records in ascending key order.
func (s *Snapshot[K, R]) Entries() iter.Seq[R] {
	return func(yield func(R) bool) {
		if s == nil {
			return
		}
		for _, r := range s.entries {
			if !yield(r) {
				return
			}
		}
	}
}

// Len returns the number of records. A nil Snapshot is empty.
func (s *Snapshot[K, R]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Get looks up a record by key.
func (s *Snapshot[K, R]) Get(key K) (R, bool) {
	var zero R
	if s == nil {
		return zero, false
	}

	i, found := slices.BinarySearchFunc(s.entries, key, func(r R, k K) int {
		return cmp.Compare(r.Key(), k)
	})
	if !found {
		return zero, false
	}
	return s.entries[i], true
}

// Keys returns the keys in ascending order.
func (s *Snapshot[K, R]) Keys() []K {
	keys := make([]K, 0, s.Len())
	for r := range s.Entries() {
		keys = append(keys, r.Key())
	}
	return keys
}
