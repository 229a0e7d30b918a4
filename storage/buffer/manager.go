/*
Buffer pool manager mediates between a fixed-size in-memory frame pool and the
data file on disk. Disk IO is expensive so pages are cached in frames, and the
manager guarantees that a returned frame contains the latest committed image
of its page and that a page currently in use is never evicted.

The manager composes two subsystems:
- the page table (extendible hash, see table.go) locating the frame of a
  resident page
- the LRU-K replacer (see lruk.go) choosing victim frames among the unpinned

access rules for frames:
- every NewPage()/FetchPage() pins the returned frame. the caller must pair it
  with exactly one UnpinPage() after it completes using the page image.
- a frame is evictable exactly while its pin count is 0.
- the dirty bit is sticky: UnpinPage can set it, only flush/evict clear it.

# Concurrency

Every public operation acquires the manager's latch for its entire duration,
including disk reads/writes on the miss and write-back paths. Long IO stalls
therefore hold the latch; the design accepts this cost in exchange for
simplicity and invariant strength. The page table and replacer carry their own
mutexes for direct callers; nested inside the manager their locks are acquired
in a fixed order (manager -> page table, manager -> replacer, never the
reverse), so deadlock is impossible.

Victim selection always prefers the free list; the replacer is consulted only
when the free list is empty. Dirty victims are written back synchronously
before their frame is reused.
*/
package buffer

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/cao1629/minibase/storage/disk"
	"github.com/cao1629/minibase/storage/page"
)

var (
	// ErrNoAvailableFrame means every frame is pinned: nothing on the free
	// list and nothing evictable
	ErrNoAvailableFrame = errors.New("buffer: no available frame (all pinned)")
	// ErrPagePinned means the page cannot be deleted while callers hold pins
	ErrPagePinned = errors.New("buffer: page is pinned")
	// ErrPageNotResident means the page is not in the buffer pool
	ErrPageNotResident = errors.New("buffer: page is not resident")
)

// Manager manages the buffer pool
type Manager struct {
	// disk manager
	dm *disk.Manager
	// frames is the fixed frame array. frame ids index into it
	frames []*Frame
	// pageTable maps resident page ids to frame ids
	pageTable *pageTable
	// replacer tracks access history of frames and picks victims
	replacer *LRUKReplacer
	// freeList points to the head node (free frame) of free list
	freeList FrameID
	// mu is the manager's latch. every public operation holds it end to end
	mu sync.Mutex
}

// NewManager initializes the buffer pool manager.
// poolSize is the number of frames, replacerK the K of the LRU-K policy.
func NewManager(dm *disk.Manager, poolSize, replacerK int) *Manager {
	return &Manager{
		dm:        dm,
		frames:    newFrames(poolSize),
		pageTable: newPageTable(),
		replacer:  NewLRUKReplacer(poolSize, replacerK),
		freeList:  FirstFrameID,
	}
}

// NewPage allocates a fresh page and returns its pinned frame.
// the returned frame's image is 0-filled. the caller must UnpinPage() after
// it completes using the frame.
// ErrNoAvailableFrame is returned iff every frame is pinned; no page id is
// consumed in that case because the frame is acquired before allocation.
func (m *Manager) NewPage() (*Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	frameID, err := m.acquireFrame()
	if err != nil {
		return nil, err
	}
	pageID := m.dm.AllocatePage()

	frame := m.frames[frameID]
	frame.pageID = pageID
	frame.pinCount = 1
	frame.dirty = false
	m.pageTable.insert(pageID, frameID)
	m.replacer.RecordAccess(frameID)
	m.replacer.SetEvictable(frameID, false)
	return frame, nil
}

// FetchPage returns the pinned frame holding the page, reading the page from
// disk when it is not resident. the caller must UnpinPage() after it
// completes using the frame.
// ErrNoAvailableFrame is returned iff the page is not resident and every
// frame is pinned.
func (m *Manager) FetchPage(pageID page.PageID) (*Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// hit: pin and record the access
	if frameID, ok := m.pageTable.find(pageID); ok {
		frame := m.frames[frameID]
		frame.pinCount++
		m.replacer.RecordAccess(frameID)
		m.replacer.SetEvictable(frameID, false)
		return frame, nil
	}

	frameID, err := m.acquireFrame()
	if err != nil {
		return nil, err
	}
	frame := m.frames[frameID]
	frame.pageID = pageID
	frame.pinCount = 1
	frame.dirty = false
	m.pageTable.insert(pageID, frameID)
	m.replacer.RecordAccess(frameID)
	m.replacer.SetEvictable(frameID, false)

	if err := m.dm.ReadPage(pageID, frame.data); err != nil {
		// undo the residency so the frame is not left holding garbage
		m.pageTable.remove(pageID)
		m.replacer.SetEvictable(frameID, true)
		m.replacer.Remove(frameID)
		frame.reset()
		m.returnToFreeList(frameID)
		return nil, errors.Wrap(err, "dm.ReadPage failed")
	}
	return frame, nil
}

// UnpinPage decrements the page's pin count.
// is_dirty ORs the frame's dirty bit; passing false never clears a
// previously set bit. when the pin count reaches 0 the frame becomes
// evictable. returns false when the page is not resident or the pin count is
// already 0.
func (m *Manager) UnpinPage(pageID page.PageID, isDirty bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	frameID, ok := m.pageTable.find(pageID)
	if !ok {
		return false
	}
	frame := m.frames[frameID]
	if frame.pinCount == 0 {
		return false
	}
	if isDirty {
		frame.dirty = true
	}
	frame.pinCount--
	if frame.pinCount == 0 {
		m.replacer.SetEvictable(frameID, true)
	}
	return true
}

// FlushPage writes the page's image through the disk manager and clears the
// dirty flag, regardless of the pin count.
// ErrPageNotResident is returned when the page is not in the pool.
func (m *Manager) FlushPage(pageID page.PageID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	frameID, ok := m.pageTable.find(pageID)
	if !ok {
		return ErrPageNotResident
	}
	if err := m.flushFrame(m.frames[frameID]); err != nil {
		return err
	}
	return nil
}

// FlushAllPages flushes every resident frame.
// a failing write does not stop the sweep; the first error is returned after
// every frame was visited.
func (m *Manager) FlushAllPages() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for _, frame := range m.frames {
		if !frame.pageID.IsValid() {
			continue
		}
		if err := m.flushFrame(frame); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// DeletePage removes the page from the pool and returns its frame to the
// free list. a page that is not resident is already deleted, so this is a
// no-op success. ErrPagePinned is returned while callers hold pins.
// a dirty page is written back before the frame is recycled.
func (m *Manager) DeletePage(pageID page.PageID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	frameID, ok := m.pageTable.find(pageID)
	if !ok {
		return nil
	}
	frame := m.frames[frameID]
	if frame.pinCount > 0 {
		return ErrPagePinned
	}
	if frame.dirty {
		if err := m.flushFrame(frame); err != nil {
			return err
		}
	}
	m.pageTable.remove(pageID)
	m.replacer.Remove(frameID)
	frame.reset()
	m.returnToFreeList(frameID)
	return nil
}

// flushFrame writes the frame's image to disk and clears the dirty flag.
// the caller must hold the manager's latch.
func (m *Manager) flushFrame(frame *Frame) error {
	if err := m.dm.WritePage(frame.pageID, frame.data); err != nil {
		return errors.Wrap(err, "dm.WritePage failed")
	}
	frame.dirty = false
	return nil
}

// acquireFrame returns a frame the next page may be read into: from the free
// list first, by eviction second. the evicted resident is written back when
// dirty and its page-table entry removed. the returned frame is reset.
// the caller must hold the manager's latch.
func (m *Manager) acquireFrame() (FrameID, error) {
	if frameID := m.allocateFromFreeList(); frameID != freeListInvalidID {
		return frameID, nil
	}

	frameID, ok := m.replacer.Evict()
	if !ok {
		return InvalidFrameID, ErrNoAvailableFrame
	}
	victim := m.frames[frameID]
	if victim.dirty {
		if err := m.dm.WritePage(victim.pageID, victim.data); err != nil {
			// put the victim back as evictable so the pool stays consistent
			m.replacer.RecordAccess(frameID)
			m.replacer.SetEvictable(frameID, true)
			return InvalidFrameID, errors.Wrap(err, "dm.WritePage failed")
		}
	}
	m.pageTable.remove(victim.pageID)
	victim.reset()
	return frameID, nil
}
