// Package store holds the reconciled "current truth" that every diff is taken
// against and every change set is applied to.
package store

import (
	"cmp"

	"github.com/tailored-agentic-units/listmonitor/snapshot"
)

// Store is a key-sorted, mutable record set. Entries yields ascending by key
// with no duplicates after any sequence of mutations.
//
// Implementations are not required to be safe for concurrent use: the
// monitor is the single writer, and readers running alongside it observe
// in-flight mutation.
type Store[K cmp.Ordered, R snapshot.Record[K]] interface {
	snapshot.Source[R]
	// Add inserts r if its key is absent and reports whether it did.
	Add(r R) (bool, error)
	// Remove deletes the record with r's key if present and reports whether it did.
	Remove(r R) (bool, error)
	// Update replaces the record with r's key if present and reports whether
	// it did. It never inserts.
	Update(r R) (bool, error)
	// Get looks up a record by key.
	Get(key K) (R, bool)
	// Seed loads every record of src. A key already present is replaced.
	Seed(src snapshot.Source[R]) error
}
