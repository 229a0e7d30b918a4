/*
Frame is an in-memory slot holding one page image plus its metadata.

Metadata kept per frame for the cache replacement policy:

1. pin count (or may be called ref count)
- This is used to grasp whether the frame is now referred by callers.
- If the frame has been pinned, then the frame cannot be evicted.
- So the flow is: pin the frame (via NewPage()/FetchPage()) -> do anything with the page image
- -> unpin the frame (via UnpinPage()) after the process is completed.
- IMPORTANT: the caller is responsible for UnpinPage(). every NewPage()/FetchPage()
- must be paired with exactly one UnpinPage(), otherwise the pool eventually
- refuses new allocations.

2. dirty bit
- This is used to grasp whether the page in the frame is updated and not written out to disk yet.
- When the manager evicts a dirty frame, the image must be written to disk before eviction.
- The dirty bit is sticky: UnpinPage can only set it, never clear it.
- The only way to clear it is a flush or an evict-with-writeback.

All frame metadata is guarded by the manager's latch. The returned *Frame is a
shared reference; the manager does not police concurrent access within a single
page image, callers layer their own latching atop handles.
*/
package buffer

import (
	"github.com/cao1629/minibase/storage/page"
)

// FrameID is the index into the manager's frame array
type FrameID int32

const (
	// FirstFrameID is the first frame id
	FirstFrameID FrameID = 0
	// InvalidFrameID indicates `no frame`
	InvalidFrameID FrameID = -1
)

// Frame is one slot of the buffer pool
type Frame struct {
	// id is the frame's own index. it never changes
	id FrameID
	// data is the page image. allocated once, reused across residents
	data page.PagePtr
	// pageID is the page currently resident, or InvalidPageID for a free frame
	pageID page.PageID
	// pinCount counts callers currently using the frame
	pinCount uint32
	// dirty reports whether the image was modified since the last write-back
	dirty bool
	// nextFreeID chains free frames. this is free list for frames
	nextFreeID FrameID
}

// newFrames initializes the frame array with every frame chained on the free list
func newFrames(poolSize int) []*Frame {
	frames := make([]*Frame, poolSize)
	for i := 0; i < poolSize; i++ {
		frames[i] = &Frame{
			id:         FrameID(i),
			data:       page.NewPagePtr(),
			pageID:     page.InvalidPageID,
			nextFreeID: FrameID(i + 1),
		}
	}
	frames[poolSize-1].nextFreeID = freeListInvalidID
	return frames
}

// reset clears the frame's metadata and 0-fills the image
func (f *Frame) reset() {
	f.pageID = page.InvalidPageID
	f.pinCount = 0
	f.dirty = false
	page.Reset(f.data)
}

// PageID returns the id of the resident page
func (f *Frame) PageID() page.PageID {
	return f.pageID
}

// PinCount returns the current pin count
func (f *Frame) PinCount() uint32 {
	return f.pinCount
}

// IsDirty reports whether the frame was modified since the last write-back
func (f *Frame) IsDirty() bool {
	return f.dirty
}

// Data returns the mutable page image
func (f *Frame) Data() page.PagePtr {
	return f.data
}
