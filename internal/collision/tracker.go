package collision

import (
	"github.com/arloliu/pod/errs"
)

// Tracker deduplicates values by fingerprint.
// Values with the same fingerprint are compared with the equality function,
// so a fingerprint collision between different values is recorded instead
// of being mistaken for a duplicate.
type Tracker[T any] struct {
	seen         map[uint64][]T // fingerprint → distinct values
	values       []T            // distinct values in tracking order
	equal        func(a, b T) bool
	hasCollision bool
}

// NewTracker creates a tracker using equal to confirm duplicates.
func NewTracker[T any](equal func(a, b T) bool) *Tracker[T] {
	return &Tracker[T]{
		seen:   make(map[uint64][]T),
		values: make([]T, 0),
		equal:  equal,
	}
}

// Track records v under its fingerprint.
// Returns errs.ErrDuplicate if an equal value was already tracked.
func (t *Tracker[T]) Track(hash uint64, v T) error {
	bucket := t.seen[hash]
	for _, prev := range bucket {
		if t.equal(prev, v) {
			return errs.ErrDuplicate
		}
	}
	if len(bucket) > 0 {
		t.hasCollision = true
	}

	t.seen[hash] = append(bucket, v)
	t.values = append(t.values, v)

	return nil
}

// HasCollision returns true if two different values shared a fingerprint.
func (t *Tracker[T]) HasCollision() bool {
	return t.hasCollision
}

// Values returns the distinct values in tracking order.
func (t *Tracker[T]) Values() []T {
	return t.values
}

// Count returns the number of distinct values.
func (t *Tracker[T]) Count() int {
	return len(t.values)
}

// Reset clears all tracked values and collision state.
func (t *Tracker[T]) Reset() {
	clear(t.seen)
	t.values = t.values[:0]
	t.hasCollision = false
}
