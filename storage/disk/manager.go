/*
Disk manager deals with the data file under base directory.
It reads/writes raw page bytes at page granularity and hands out new page ids.

The data file is a flat array of fixed-size pages, so the location of a page
is simply pageID * PageSize. Page ids are allocated monotonically and never
reused within a process lifetime. Allocating a page does not touch the file:
a freshly allocated page materializes on disk the first time it is written,
and reading it before that yields a zero-filled image.
*/
package disk

import (
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/cao1629/minibase/storage/page"
)

// dataFileName is the name of the data file under base directory
const dataFileName = "minibase.data"

// Manager manages the data file on disk
type Manager struct {
	// st is the underlying storage. file storage in production, buffer storage in test
	st storage

	// nextPageID is the page id handed out by the next AllocatePage call.
	// protected by mu so allocation is safe even without the buffer
	// manager's latch. page reads/writes are serialized by the caller
	nextPageID page.PageID
	mu         sync.Mutex
}

// NewManager initializes disk manager with file storage under baseDir
func NewManager(baseDir string) (*Manager, error) {
	st, err := newFileOpener(baseDir).open()
	if err != nil {
		return nil, errors.Wrap(err, "open failed")
	}
	return newManagerWithStorage(st)
}

// newManagerWithStorage initializes disk manager on top of any storage
func newManagerWithStorage(st storage) (*Manager, error) {
	size, err := st.Size()
	if err != nil {
		return nil, errors.Wrap(err, "st.Size failed")
	}
	return &Manager{
		st: st,
		// resume allocation after the last page persisted in the file
		nextPageID: page.PageID(size / page.PageSize),
	}, nil
}

// AllocatePage hands out a new page id
// the id is not persisted until the page is written, see the package comment
func (m *Manager) AllocatePage() page.PageID {
	m.mu.Lock()
	defer m.mu.Unlock()
	pageID := m.nextPageID
	m.nextPageID++
	return pageID
}

// ReadPage reads the page from the data file into p
// reading a page which has been allocated but never written returns a 0-filled image
func (m *Manager) ReadPage(pageID page.PageID, p page.PagePtr) error {
	if !pageID.IsValid() {
		return errors.Errorf("invalid page id: %d", pageID)
	}
	offset := page.CalculateFileOffset(pageID)
	size, err := m.st.Size()
	if err != nil {
		return errors.Wrap(err, "st.Size failed")
	}
	if offset+page.PageSize > size {
		// the page has never been written out
		page.Reset(p)
		return nil
	}
	if _, err := m.st.Seek(offset, io.SeekStart); err != nil {
		return errors.Wrap(err, "st.Seek failed")
	}
	if _, err := m.st.Read(p[:]); err != nil {
		return errors.Wrap(err, "st.Read failed")
	}
	return nil
}

// WritePage writes the page image p to the data file
// the file is extended when the page is written for the first time
func (m *Manager) WritePage(pageID page.PageID, p page.PagePtr) error {
	if !pageID.IsValid() {
		return errors.Errorf("invalid page id: %d", pageID)
	}
	offset := page.CalculateFileOffset(pageID)
	if _, err := m.st.Seek(offset, io.SeekStart); err != nil {
		return errors.Wrap(err, "st.Seek failed")
	}
	if _, err := m.st.Write(p[:]); err != nil {
		return errors.Wrap(err, "st.Write failed")
	}
	return nil
}

// Sync flushes the data file to stable storage
func (m *Manager) Sync() error {
	if err := m.st.Sync(); err != nil {
		return errors.Wrap(err, "st.Sync failed")
	}
	return nil
}

// Close closes the underlying storage
func (m *Manager) Close() error {
	if err := m.st.Close(); err != nil {
		return errors.Wrap(err, "st.Close failed")
	}
	return nil
}
