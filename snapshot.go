package linesel

import "slices"

// DefaultSnapshotLimit is the snapshot capacity used when none is given.
const DefaultSnapshotLimit = 25

// SnapshotBuffer retains up to a fixed number of point-in-time copies of
// a slice, discarding the oldest when full. The zero value is unusable;
// construct with NewSnapshotBuffer.
type SnapshotBuffer[T any] struct {
	limit int
	snaps [][]T
}

// NewSnapshotBuffer returns a buffer retaining up to limit snapshots.
// Limits below one select DefaultSnapshotLimit.
func NewSnapshotBuffer[T any](limit int) *SnapshotBuffer[T] {
	if limit < 1 {
		limit = DefaultSnapshotLimit
	}
	return &SnapshotBuffer[T]{limit: limit}
}

// Snapshot stores a copy of items, evicting the oldest snapshot if the
// buffer is full. The caller's slice is never retained.
func (b *SnapshotBuffer[T]) Snapshot(items []T) {
	if excess := len(b.snaps) - b.limit + 1; excess > 0 {
		b.snaps = b.snaps[excess:]
	}
	b.snaps = append(b.snaps, slices.Clone(items))
}

// Rewind removes and returns the most recent snapshot.
func (b *SnapshotBuffer[T]) Rewind() ([]T, error) {
	if len(b.snaps) == 0 {
		return nil, ErrEmptyBuffer
	}
	last := b.snaps[len(b.snaps)-1]
	b.snaps = b.snaps[:len(b.snaps)-1]
	return last, nil
}

// Len returns the number of retained snapshots.
func (b *SnapshotBuffer[T]) Len() int {
	return len(b.snaps)
}

// Cap returns the maximum number of retained snapshots.
func (b *SnapshotBuffer[T]) Cap() int {
	return b.limit
}
