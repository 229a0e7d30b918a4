/*
the implementation of free list

The free list holds frames that have never been populated or have been
explicitly deleted. It is intrusive: free frames chain through their
nextFreeID field, so the list costs no extra allocation.

A frame is never on the free list and in the page table at the same time.
*/
package buffer

const (
	// this indicates the end of the free list
	freeListInvalidID FrameID = -1
)

// allocateFromFreeList returns a frame from free list.
// this removes the frame from free list.
// if there is no frame in free list, just return freeListInvalidID.
// the caller must hold the manager's latch.
func (m *Manager) allocateFromFreeList() FrameID {
	frameID := m.freeList
	if frameID == freeListInvalidID {
		return freeListInvalidID
	}
	frame := m.frames[frameID]
	// remove first frame from free list
	m.freeList = frame.nextFreeID
	frame.nextFreeID = freeListInvalidID
	return frameID
}

// returnToFreeList pushes a deleted frame back onto the free list.
// the caller must hold the manager's latch and must have removed the frame
// from the page table and the replacer already.
func (m *Manager) returnToFreeList(frameID FrameID) {
	frame := m.frames[frameID]
	frame.nextFreeID = m.freeList
	m.freeList = frameID
}
