package disk

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cao1629/minibase/storage/page"
)

func testingNewRandomPage(t *testing.T) page.PagePtr {
	t.Helper()
	p := page.NewPagePtr()
	if _, err := rand.Read(p[:]); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestAllocatePage(t *testing.T) {
	m, err := TestingNewBufferManager()
	assert.Nil(t, err)

	// ids are handed out monotonically from the head of an empty file
	assert.Equal(t, page.FirstPageID, m.AllocatePage())
	assert.Equal(t, page.PageID(1), m.AllocatePage())
	assert.Equal(t, page.PageID(2), m.AllocatePage())
}

func TestReadWritePage(t *testing.T) {
	t.Run("written page is read back", func(t *testing.T) {
		m, err := TestingNewBufferManager()
		assert.Nil(t, err)

		pageID := m.AllocatePage()
		p := testingNewRandomPage(t)
		err = m.WritePage(pageID, p)
		assert.Nil(t, err)

		got := page.NewPagePtr()
		err = m.ReadPage(pageID, got)
		assert.Nil(t, err)
		assert.Equal(t, p[:], got[:])
	})
	t.Run("allocated but never written page reads as zeros", func(t *testing.T) {
		m, err := TestingNewBufferManager()
		assert.Nil(t, err)

		pageID := m.AllocatePage()
		got := testingNewRandomPage(t)
		err = m.ReadPage(pageID, got)
		assert.Nil(t, err)
		assert.Equal(t, page.NewPagePtr()[:], got[:])
	})
	t.Run("pages can be written out of order", func(t *testing.T) {
		m, err := TestingNewBufferManager()
		assert.Nil(t, err)

		first := m.AllocatePage()
		second := m.AllocatePage()

		p := testingNewRandomPage(t)
		err = m.WritePage(second, p)
		assert.Nil(t, err)

		// the gap page reads as zeros
		got := page.NewPagePtr()
		err = m.ReadPage(first, got)
		assert.Nil(t, err)
		assert.Equal(t, page.NewPagePtr()[:], got[:])

		err = m.ReadPage(second, got)
		assert.Nil(t, err)
		assert.Equal(t, p[:], got[:])
	})
	t.Run("invalid page id is rejected", func(t *testing.T) {
		m, err := TestingNewBufferManager()
		assert.Nil(t, err)

		err = m.ReadPage(page.InvalidPageID, page.NewPagePtr())
		assert.NotNil(t, err)
		err = m.WritePage(page.InvalidPageID, page.NewPagePtr())
		assert.NotNil(t, err)
	})
}

func TestFileManager(t *testing.T) {
	m, err := TestingNewFileManager(t)
	assert.Nil(t, err)

	pageID := m.AllocatePage()
	p := testingNewRandomPage(t)
	err = m.WritePage(pageID, p)
	assert.Nil(t, err)
	err = m.Sync()
	assert.Nil(t, err)

	got := page.NewPagePtr()
	err = m.ReadPage(pageID, got)
	assert.Nil(t, err)
	assert.Equal(t, p[:], got[:])

	err = m.Close()
	assert.Nil(t, err)
}

func TestAllocationResumesAfterReopen(t *testing.T) {
	dir := t.TempDir()

	m, err := NewManager(dir)
	assert.Nil(t, err)
	pageID := m.AllocatePage()
	err = m.WritePage(pageID, testingNewRandomPage(t))
	assert.Nil(t, err)
	err = m.Close()
	assert.Nil(t, err)

	// reopen: allocation must continue after the persisted pages
	m, err = NewManager(dir)
	assert.Nil(t, err)
	assert.Equal(t, pageID+1, m.AllocatePage())
	err = m.Close()
	assert.Nil(t, err)
}
