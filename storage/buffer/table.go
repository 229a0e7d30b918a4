/*
This is the page table: mapping from page id to the frame currently holding the page.
It is an extendible hash table, so lookups stay bucket-local while buckets
split only where residents actually collide.

Exactly the set of resident frames appears here, keyed by each frame's
current page id. Free frames never appear.
*/
package buffer

import (
	"github.com/cao1629/minibase/container/hash"
	"github.com/cao1629/minibase/storage/page"
)

// pageTableBucketSize is the capacity of each page-table bucket
const pageTableBucketSize = 8

// pageTable is the mapping from page id to frame id
type pageTable struct {
	table *hash.Table[page.PageID, FrameID]
}

// newPageTable initializes the page table
func newPageTable() *pageTable {
	return &pageTable{
		table: hash.New[page.PageID, FrameID](pageTableBucketSize, hash.Int32Hasher[page.PageID]),
	}
}

// find returns the frame holding the page
func (pt *pageTable) find(pageID page.PageID) (FrameID, bool) {
	frameID, ok := pt.table.Find(pageID)
	if !ok {
		return InvalidFrameID, false
	}
	return frameID, true
}

// insert associates the page with the frame
func (pt *pageTable) insert(pageID page.PageID, frameID FrameID) {
	pt.table.Insert(pageID, frameID)
}

// remove removes the page's entry
func (pt *pageTable) remove(pageID page.PageID) bool {
	return pt.table.Remove(pageID)
}
