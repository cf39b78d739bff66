package store

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"github.com/tailored-agentic-units/listmonitor/snapshot"
)

// Memory is an in-process Store backed by a key-sorted slice. Lookups are
// O(log n); inserts and removals shift the tail.
type Memory[K cmp.Ordered, R snapshot.Record[K]] struct {
	entries []R
}

// NewMemory creates an empty Memory store.
func NewMemory[K cmp.Ordered, R snapshot.Record[K]]() *Memory[K, R] {
	return &Memory[K, R]{}
}

// NewMemoryFrom creates a Memory store pre-populated from src.
func NewMemoryFrom[K cmp.Ordered, R snapshot.Record[K]](src snapshot.Source[R]) (*Memory[K, R], error) {
	m := NewMemory[K, R]()
	if err := m.Seed(src); err != nil {
		return nil, err
	}
	return m, nil
}

// Seed writes every record of src into the store, replacing records with the
// same key. When src repeats a key the last occurrence wins. Nil records are
// skipped.
func (m *Memory[K, R]) Seed(src snapshot.Source[R]) error {
	if snapshot.IsNil(src) {
		return fmt.Errorf("%w: nil seed source", ErrInvalidArgument)
	}

	for r := range src.Entries() {
		if snapshot.IsNil(r) {
			continue
		}
		m.put(r)
	}
	return nil
}

// Add inserts r if no record has its key. It reports whether r was inserted
// and returns ErrInvalidArgument for a nil r.
func (m *Memory[K, R]) Add(r R) (bool, error) {
	if snapshot.IsNil(r) {
		return false, fmt.Errorf("%w: nil record", ErrInvalidArgument)
	}

	i, found := m.search(r.Key())
	if found {
		return false, nil
	}
	m.entries = slices.Insert(m.entries, i, r)
	return true, nil
}

// Remove deletes the record with r's key. It reports whether one was
// present and returns ErrInvalidArgument for a nil r.
func (m *Memory[K, R]) Remove(r R) (bool, error) {
	if snapshot.IsNil(r) {
		return false, fmt.Errorf("%w: nil record", ErrInvalidArgument)
	}

	i, found := m.search(r.Key())
	if !found {
		return false, nil
	}
	m.entries = slices.Delete(m.entries, i, i+1)
	return true, nil
}

// Update replaces the record with r's key and never inserts. It reports
// whether one was present and returns ErrInvalidArgument for a nil r.
func (m *Memory[K, R]) Update(r R) (bool, error) {
	if snapshot.IsNil(r) {
		return false, fmt.Errorf("%w: nil record", ErrInvalidArgument)
	}

	i, found := m.search(r.Key())
	if !found {
		return false, nil
	}
	m.entries[i] = r
	return true, nil
}

// Get looks up a record by key with a binary search.
func (m *Memory[K, R]) Get(key K) (R, bool) {
	i, found := m.search(key)
	if !found {
		var zero R
		return zero, false
	}
	return m.entries[i], true
}

// Entries yields the stored records in ascending key order. The length is
// re-read on every step, so a pass that overlaps a mutation never goes out
// of range but may skip or repeat a record.
func (m *Memory[K, R]) Entries() iter.Seq[R] {
	return func(yield func(R) bool) {
		for i := 0; i < len(m.entries); i++ {
			if !yield(m.entries[i]) {
				return
			}
		}
	}
}

// Len returns the number of stored records.
func (m *Memory[K, R]) Len() int {
	return len(m.entries)
}

func (m *Memory[K, R]) put(r R) {
	// Seeding from an ascending source appends.
	if n := len(m.entries); n == 0 || cmp.Less(m.entries[n-1].Key(), r.Key()) {
		m.entries = append(m.entries, r)
		return
	}

	i, found := m.search(r.Key())
	if found {
		m.entries[i] = r
		return
	}
	m.entries = slices.Insert(m.entries, i, r)
}

func (m *Memory[K, R]) search(key K) (int, bool) {
	return slices.BinarySearchFunc(m.entries, key, func(r R, k K) int {
		return cmp.Compare(r.Key(), k)
	})
}
