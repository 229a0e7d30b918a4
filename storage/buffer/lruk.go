/*
LRU-K replacer decides which frame the buffer manager evicts next.

A frame's k-th backward distance is the gap between now and its k-th most
recent access. Frames with fewer than k accesses have infinite distance and
are preferred victims. The replacer keeps two ordered lists instead of
timestamps:

- history list: frames with fewer than k accesses, ordered by first access.
  Eviction from here is FIFO on first access; accesses below k do NOT reorder
  the list. This is the classical LRU-K reading for the infinite-distance
  class (earliest first access loses the tie-break).
- cache list: frames with k or more accesses, ordered by recency. every
  access at or above k moves the frame to the tail (MRU end), so the head is
  the least recently accessed frame among the tracked ones.

Only frames marked evictable are candidates; pinned frames stay tracked but
are skipped. Size() counts evictable frames only.
*/
package buffer

import (
	"container/list"
	"fmt"
	"sync"
)

// LRUKReplacer tracks per-frame access history and selects victim frames
type LRUKReplacer struct {
	mu sync.Mutex

	// numFrames bounds the frame ids the replacer accepts: [0, numFrames)
	numFrames int
	// k is the number of accesses promoting a frame from history to cache list
	k int

	// historyList holds frames with fewer than k accesses, FIFO by first access
	historyList *list.List
	// cacheList holds frames with k or more accesses, head = least recently accessed
	cacheList *list.List
	// elems locates a frame's list element for O(1) move/remove
	elems map[FrameID]*list.Element
	// accessCount is the number of recorded accesses per tracked frame
	accessCount map[FrameID]int
	// evictable marks which tracked frames may be victimized
	evictable map[FrameID]bool
	// curSize is the number of evictable frames
	curSize int
}

// NewLRUKReplacer initializes the replacer for frame ids in [0, numFrames)
func NewLRUKReplacer(numFrames, k int) *LRUKReplacer {
	return &LRUKReplacer{
		numFrames:   numFrames,
		k:           k,
		historyList: list.New(),
		cacheList:   list.New(),
		elems:       make(map[FrameID]*list.Element),
		accessCount: make(map[FrameID]int),
		evictable:   make(map[FrameID]bool),
	}
}

// checkFrameID panics on an out-of-range frame id.
// an out-of-range id is a precondition violation by the caller, not a
// recoverable condition.
func (r *LRUKReplacer) checkFrameID(frameID FrameID) {
	if frameID < 0 || int(frameID) >= r.numFrames {
		panic(fmt.Sprintf("lruk: frame id out of range: %d", frameID))
	}
}

// RecordAccess records one access to the frame.
// the first access appends the frame to the history list; accesses below k
// leave the history order untouched; the k-th access promotes the frame to
// the cache list tail; accesses above k move it to the cache list tail.
func (r *LRUKReplacer) RecordAccess(frameID FrameID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkFrameID(frameID)

	r.accessCount[frameID]++
	count := r.accessCount[frameID]

	switch {
	case count < r.k:
		if count == 1 {
			r.elems[frameID] = r.historyList.PushBack(frameID)
		}
		// still in the history list. FIFO by first access: no reorder
	case count == r.k:
		// with k == 1 the frame was never on the history list
		if e, ok := r.elems[frameID]; ok {
			r.historyList.Remove(e)
		}
		r.elems[frameID] = r.cacheList.PushBack(frameID)
	default:
		r.cacheList.MoveToBack(r.elems[frameID])
	}
}

// SetEvictable toggles the frame's evictability, adjusting the evictable count.
// it is idempotent on the same value. setting evictable on an untracked frame
// creates the bookkeeping entry.
func (r *LRUKReplacer) SetEvictable(frameID FrameID, evictable bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkFrameID(frameID)

	was, tracked := r.evictable[frameID]
	if tracked && was == evictable {
		return
	}
	r.evictable[frameID] = evictable
	if evictable {
		r.curSize++
	} else if tracked {
		r.curSize--
	}
}

// Evict selects and removes the victim frame.
// the history list is searched first (frames with infinite k-distance), then
// the cache list; within each list the frame closest to the head wins. the
// victim's entire bookkeeping is removed. returns false when no evictable
// frame is tracked.
func (r *LRUKReplacer) Evict() (FrameID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.curSize == 0 {
		return InvalidFrameID, false
	}
	for _, l := range []*list.List{r.historyList, r.cacheList} {
		for e := l.Front(); e != nil; e = e.Next() {
			frameID := e.Value.(FrameID)
			if !r.evictable[frameID] {
				continue
			}
			l.Remove(e)
			r.dropBookkeeping(frameID)
			return frameID, true
		}
	}
	return InvalidFrameID, false
}

// Remove removes an evictable frame's bookkeeping, e.g. when the buffer
// manager deletes the resident page.
// removing an untracked frame is a no-op; removing a tracked non-evictable
// frame is a precondition violation and panics.
func (r *LRUKReplacer) Remove(frameID FrameID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkFrameID(frameID)

	evictable, tracked := r.evictable[frameID]
	if !tracked && r.accessCount[frameID] == 0 {
		return
	}
	if !evictable {
		panic(fmt.Sprintf("lruk: remove non-evictable frame: %d", frameID))
	}
	if e, ok := r.elems[frameID]; ok {
		if r.accessCount[frameID] < r.k {
			r.historyList.Remove(e)
		} else {
			r.cacheList.Remove(e)
		}
	}
	r.dropBookkeeping(frameID)
}

// dropBookkeeping erases every trace of the frame. the caller must hold r.mu
// and must have removed the frame's list element already.
func (r *LRUKReplacer) dropBookkeeping(frameID FrameID) {
	if r.evictable[frameID] {
		r.curSize--
	}
	delete(r.elems, frameID)
	delete(r.accessCount, frameID)
	delete(r.evictable, frameID)
}

// Size returns the number of evictable frames
func (r *LRUKReplacer) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.curSize
}
