package linesel

import (
	"errors"
	"testing"
)

func TestSnapshotRewind(t *testing.T) {
	b := NewSnapshotBuffer[int](3)
	if b.Cap() != 3 {
		t.Errorf("expected capacity 3, got %d", b.Cap())
	}
	if _, err := b.Rewind(); !errors.Is(err, ErrEmptyBuffer) {
		t.Errorf("expected ErrEmptyBuffer, got %v", err)
	}
	b.Snapshot([]int{1})
	b.Snapshot([]int{2})
	if b.Len() != 2 {
		t.Errorf("expected 2 snapshots, got %d", b.Len())
	}
	got, err := b.Rewind()
	if err != nil {
		t.Errorf("rewinding a populated buffer failed: %v", err)
	}
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("expected the most recent snapshot, got %v", got)
	}
	if b.Len() != 1 {
		t.Errorf("rewind should consume a snapshot, got %d", b.Len())
	}
}

func TestSnapshotEviction(t *testing.T) {
	b := NewSnapshotBuffer[int](3)
	for i := 1; i <= 4; i++ {
		b.Snapshot([]int{i})
	}
	if b.Len() != 3 {
		t.Errorf("expected the buffer to hold its capacity, got %d", b.Len())
	}
	for _, want := range []int{4, 3, 2} {
		got, err := b.Rewind()
		if err != nil {
			t.Errorf("rewind %d failed: %v", want, err)
			continue
		}
		if got[0] != want {
			t.Errorf("expected snapshot %d, got %d", want, got[0])
		}
	}
	if _, err := b.Rewind(); !errors.Is(err, ErrEmptyBuffer) {
		t.Errorf("the oldest snapshot should have been evicted, got %v", err)
	}
}

func TestSnapshotDefaultLimit(t *testing.T) {
	b := NewSnapshotBuffer[string](0)
	if b.Cap() != DefaultSnapshotLimit {
		t.Errorf("expected the default limit %d, got %d", DefaultSnapshotLimit, b.Cap())
	}
}

func TestSnapshotCopies(t *testing.T) {
	b := NewSnapshotBuffer[int](3)
	items := []int{1, 2, 3}
	b.Snapshot(items)
	items[0] = 99
	got, err := b.Rewind()
	if err != nil {
		t.Errorf("rewind failed: %v", err)
	}
	if got[0] != 1 {
		t.Errorf("snapshots must not alias the caller's slice, got %v", got)
	}
}
