package snapshot

import gocmp "github.com/google/go-cmp/cmp"

// Equal decides whether two records with the same key carry the same payload.
// Implementations must be pure.
type Equal[R any] func(a, b R) bool

// Deep compares records structurally with go-cmp. opts are passed through,
// e.g. cmpopts.IgnoreFields to exclude volatile fields.
func Deep[R any](opts ...gocmp.Option) Equal[R] {
	return func(a, b R) bool {
		return gocmp.Equal(a, b, opts...)
	}
}

// Never treats every same-key pair as modified.
func Never[R any](R, R) bool {
	return false
}
