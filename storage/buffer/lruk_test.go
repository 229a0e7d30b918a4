package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRUKEvictPrefersHistoryList(t *testing.T) {
	// frames 1..4 reach k=2 accesses, frame 5 only one access.
	// frame 5 has infinite backward distance so it must lose first.
	r := NewLRUKReplacer(6, 2)
	for _, fid := range []FrameID{1, 2, 3, 4, 1, 2, 3, 4, 5} {
		r.RecordAccess(fid)
	}
	for _, fid := range []FrameID{1, 2, 3, 4, 5} {
		r.SetEvictable(fid, true)
	}
	assert.Equal(t, 5, r.Size())

	victim, ok := r.Evict()
	assert.True(t, ok)
	assert.Equal(t, FrameID(5), victim)
	assert.Equal(t, 4, r.Size())

	// cache list evicts by k-th access recency: 1, 2, 3, 4
	for _, expected := range []FrameID{1, 2, 3, 4} {
		victim, ok = r.Evict()
		assert.True(t, ok)
		assert.Equal(t, expected, victim)
	}

	_, ok = r.Evict()
	assert.False(t, ok)
	assert.Equal(t, 0, r.Size())
}

func TestLRUKHistoryListIsFIFOByFirstAccess(t *testing.T) {
	// with k=3, two accesses keep a frame in the history list.
	// re-accessing frame 0 must not move it behind frame 1.
	r := NewLRUKReplacer(4, 3)
	r.RecordAccess(0)
	r.RecordAccess(1)
	r.RecordAccess(0)
	r.SetEvictable(0, true)
	r.SetEvictable(1, true)

	victim, ok := r.Evict()
	assert.True(t, ok)
	assert.Equal(t, FrameID(0), victim)
}

func TestLRUKAccessAboveKMovesToTail(t *testing.T) {
	r := NewLRUKReplacer(4, 2)
	for _, fid := range []FrameID{0, 0, 1, 1} {
		r.RecordAccess(fid)
	}
	// both frames are in the cache list, frame 0 in front.
	// one more access to frame 0 moves it to the MRU end.
	r.RecordAccess(0)
	r.SetEvictable(0, true)
	r.SetEvictable(1, true)

	victim, ok := r.Evict()
	assert.True(t, ok)
	assert.Equal(t, FrameID(1), victim)
}

func TestLRUKEvictSkipsNonEvictable(t *testing.T) {
	r := NewLRUKReplacer(4, 2)
	r.RecordAccess(0)
	r.RecordAccess(1)
	r.SetEvictable(0, false)
	r.SetEvictable(1, true)

	victim, ok := r.Evict()
	assert.True(t, ok)
	assert.Equal(t, FrameID(1), victim)

	// frame 0 stays tracked and pinned
	_, ok = r.Evict()
	assert.False(t, ok)
	assert.Equal(t, 0, r.Size())
}

func TestLRUKSetEvictable(t *testing.T) {
	r := NewLRUKReplacer(4, 2)
	r.RecordAccess(0)

	// a freshly accessed frame is not evictable yet
	assert.Equal(t, 0, r.Size())

	r.SetEvictable(0, true)
	assert.Equal(t, 1, r.Size())

	// idempotent on the same value
	r.SetEvictable(0, true)
	assert.Equal(t, 1, r.Size())

	r.SetEvictable(0, false)
	assert.Equal(t, 0, r.Size())
	r.SetEvictable(0, false)
	assert.Equal(t, 0, r.Size())
}

func TestLRUKRemove(t *testing.T) {
	t.Run("removes evictable frame's bookkeeping", func(t *testing.T) {
		r := NewLRUKReplacer(4, 2)
		r.RecordAccess(0)
		r.SetEvictable(0, true)
		r.Remove(0)
		assert.Equal(t, 0, r.Size())
		_, ok := r.Evict()
		assert.False(t, ok)
	})
	t.Run("untracked frame is a no-op", func(t *testing.T) {
		r := NewLRUKReplacer(4, 2)
		assert.NotPanics(t, func() { r.Remove(3) })
	})
	t.Run("non-evictable frame panics", func(t *testing.T) {
		r := NewLRUKReplacer(4, 2)
		r.RecordAccess(0)
		r.SetEvictable(0, false)
		assert.Panics(t, func() { r.Remove(0) })
	})
}

func TestLRUKWithKOneBehavesAsLRU(t *testing.T) {
	// k=1: every frame is in the cache list after its first access,
	// so eviction order is plain LRU
	r := NewLRUKReplacer(4, 1)
	for _, fid := range []FrameID{0, 1, 2, 0} {
		r.RecordAccess(fid)
	}
	for _, fid := range []FrameID{0, 1, 2} {
		r.SetEvictable(fid, true)
	}

	for _, expected := range []FrameID{1, 2, 0} {
		victim, ok := r.Evict()
		assert.True(t, ok)
		assert.Equal(t, expected, victim)
	}
}

func TestLRUKOutOfRangeFrameIDPanics(t *testing.T) {
	r := NewLRUKReplacer(4, 2)
	assert.Panics(t, func() { r.RecordAccess(4) })
	assert.Panics(t, func() { r.RecordAccess(-1) })
	assert.Panics(t, func() { r.SetEvictable(4, true) })
	assert.Panics(t, func() { r.Remove(4) })
}
