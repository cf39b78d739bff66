package diff

import "fmt"

// ChangeSet is the classified difference between an old and a new Source.
// The three collections are disjoint by key and each is ascending by key.
// Modified holds the new-side record.
type ChangeSet[R any] struct {
	Added    []R `json:"added"`
	Removed  []R `json:"removed"`
	Modified []R `json:"modified"`
}

// Changed reports whether any record was added, removed, or modified.
func (c *ChangeSet[R]) Changed() bool {
	if c == nil {
		return false
	}
	return len(c.Added) > 0 || len(c.Removed) > 0 || len(c.Modified) > 0
}

// Summary returns the per-class counts.
func (c *ChangeSet[R]) Summary() Summary {
	if c == nil {
		return Summary{}
	}
	return Summary{
		Added:    len(c.Added),
		Removed:  len(c.Removed),
		Modified: len(c.Modified),
	}
}

// Summary carries only the counts of a ChangeSet. It is what observers are
// notified with.
type Summary struct {
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
}

// Changed reports whether any record differs.
func (s Summary) Changed() bool {
	return s.Total() > 0
}

// Total is the number of records that differ.
func (s Summary) Total() int {
	return s.Added + s.Removed + s.Modified
}

// String renders the counts for log lines.
func (s Summary) String() string {
	return fmt.Sprintf("%d added, %d modified, %d removed", s.Added, s.Modified, s.Removed)
}
