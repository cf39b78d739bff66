package store

import (
	"cmp"
	"fmt"

	"github.com/tailored-agentic-units/listmonitor/diff"
	"github.com/tailored-agentic-units/listmonitor/snapshot"
)

// ApplyResult counts the mutations Apply actually performed. With a change
// set computed against the same store, each count equals the matching
// ChangeSet length.
type ApplyResult struct {
	Added   int
	Updated int
	Removed int
}

// Apply reconciles s with cs: Add for every added record, Update for every
// modified record, Remove for every removed record. The classes are disjoint
// by key, so order does not matter. The first mutator error stops Apply.
func Apply[K cmp.Ordered, R snapshot.Record[K]](s Store[K, R], cs *diff.ChangeSet[R]) (ApplyResult, error) {
	var result ApplyResult
	if snapshot.IsNil(s) {
		return result, fmt.Errorf("%w: nil store", ErrInvalidArgument)
	}
	if cs == nil {
		return result, fmt.Errorf("%w: nil change set", ErrInvalidArgument)
	}

	for _, r := range cs.Added {
		ok, err := s.Add(r)
		if err != nil {
			return result, fmt.Errorf("apply added: %w", err)
		}
		if ok {
			result.Added++
		}
	}

	for _, r := range cs.Modified {
		ok, err := s.Update(r)
		if err != nil {
			return result, fmt.Errorf("apply modified: %w", err)
		}
		if ok {
			result.Updated++
		}
	}

	for _, r := range cs.Removed {
		ok, err := s.Remove(r)
		if err != nil {
			return result, fmt.Errorf("apply removed: %w", err)
		}
		if ok {
			result.Removed++
		}
	}

	return result, nil
}

// Apply reconciles m with cs. See the package-level Apply.
func (m *Memory[K, R]) Apply(cs *diff.ChangeSet[R]) (ApplyResult, error) {
	return Apply[K, R](m, cs)
}
