/*
Extendible hash table keeps an associative map as a directory of fixed-capacity buckets.
The directory length is always 2^globalDepth and grows by doubling; each bucket
carries its own local depth and splits independently when it overflows, so the
table grows where keys actually collide instead of rehashing everything.

The buffer manager uses this table as its page table (page id -> frame id),
but the table is generic and self-contained.

Invariants:
- for every directory index i, the bucket at i also appears at every index j
  whose low localDepth bits equal those of i
- every key k in a bucket at index i satisfies hash(k) mod 2^localDepth == i mod 2^localDepth
*/
package hash

import (
	"sync"
)

// Hasher maps a key to the hash code used for bucket dispatch.
// the table only requires equality (K comparable) and this function on the key type.
type Hasher[K comparable] func(K) uint64

// entry is a single key/value association within a bucket
type entry[K comparable, V any] struct {
	key   K
	value V
}

// bucket holds a bounded list of entries and its local depth
type bucket[K comparable, V any] struct {
	entries []entry[K, V]
	// localDepth is how many low hash bits all keys in this bucket share
	localDepth int
	// size is the capacity of the bucket
	size int
}

func newBucket[K comparable, V any](size, localDepth int) *bucket[K, V] {
	return &bucket[K, V]{
		entries:    make([]entry[K, V], 0, size),
		localDepth: localDepth,
		size:       size,
	}
}

// isFull checks whether the bucket has no room left
func (b *bucket[K, V]) isFull() bool {
	return len(b.entries) >= b.size
}

// find linear-searches the bucket for an exact key match
func (b *bucket[K, V]) find(key K) (V, bool) {
	for _, e := range b.entries {
		if e.key == key {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// remove removes the first matching entry
func (b *bucket[K, V]) remove(key K) bool {
	for i, e := range b.entries {
		if e.key == key {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return true
		}
	}
	return false
}

// insert appends the entry. the caller must make sure the bucket has room
// and the key is not present yet
func (b *bucket[K, V]) insert(key K, value V) {
	b.entries = append(b.entries, entry[K, V]{key: key, value: value})
}

// Table is extendible hash table.
// all exported methods are safe for concurrent use; a single internal mutex
// serializes the whole table.
type Table[K comparable, V any] struct {
	mu sync.Mutex
	// dir is the directory. len(dir) == 1 << globalDepth always holds
	dir []*bucket[K, V]
	// globalDepth is how many low hash bits the directory dispatches on
	globalDepth int
	// bucketSize is the capacity of every bucket
	bucketSize int
	// numBuckets counts distinct buckets (not directory slots)
	numBuckets int
	hasher     Hasher[K]
}

// New initializes the table with a single empty bucket at depth 0
func New[K comparable, V any](bucketSize int, hasher Hasher[K]) *Table[K, V] {
	return &Table[K, V]{
		dir:         []*bucket[K, V]{newBucket[K, V](bucketSize, 0)},
		globalDepth: 0,
		bucketSize:  bucketSize,
		numBuckets:  1,
		hasher:      hasher,
	}
}

// indexOf returns the directory index for the key: the low globalDepth bits of its hash
func (t *Table[K, V]) indexOf(key K) int {
	mask := uint64(1)<<t.globalDepth - 1
	return int(t.hasher(key) & mask)
}

// Find locates the value associated with the key
func (t *Table[K, V]) Find(key K) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dir[t.indexOf(key)].find(key)
}

// Remove removes the association for the key.
// buckets are not merged and the directory never shrinks.
func (t *Table[K, V]) Remove(key K) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dir[t.indexOf(key)].remove(key)
}

// Insert associates the value with the key, overwriting any existing value in place.
// when the target bucket is full, the bucket is split (doubling the directory first
// when the bucket's local depth has caught up with the global depth). splitting may
// repeat for the same insert because all entries of the old bucket may hash into
// the same child; the loop terminates because each split raises the local depth.
func (t *Table[K, V]) Insert(key K, value V) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// value overwrite must not trigger a split
	target := t.dir[t.indexOf(key)]
	for i := range target.entries {
		if target.entries[i].key == key {
			target.entries[i].value = value
			return
		}
	}

	for t.dir[t.indexOf(key)].isFull() {
		t.splitBucket(t.dir[t.indexOf(key)])
	}
	t.dir[t.indexOf(key)].insert(key, value)
}

// splitBucket splits the bucket into two children of localDepth+1,
// doubling the directory first when necessary. the caller must hold t.mu.
func (t *Table[K, V]) splitBucket(target *bucket[K, V]) {
	if target.localDepth == t.globalDepth {
		// double the directory by appending a copy of its current contents
		// so dir[i+oldLen] points at the same bucket as dir[i]
		t.dir = append(t.dir, t.dir...)
		t.globalDepth++
	}

	zero := newBucket[K, V](t.bucketSize, target.localDepth+1)
	one := newBucket[K, V](t.bucketSize, target.localDepth+1)

	// partition the old bucket's entries by the bit the children differ on
	mask := uint64(1) << target.localDepth
	for _, e := range target.entries {
		if t.hasher(e.key)&mask == 0 {
			zero.insert(e.key, e.value)
		} else {
			one.insert(e.key, e.value)
		}
	}

	// rewire every directory slot that pointed at the old bucket
	for i := range t.dir {
		if t.dir[i] == target {
			if uint64(i)&mask == 0 {
				t.dir[i] = zero
			} else {
				t.dir[i] = one
			}
		}
	}
	t.numBuckets++
}

// GlobalDepth returns the directory's depth
func (t *Table[K, V]) GlobalDepth() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.globalDepth
}

// LocalDepth returns the depth of the bucket at the directory index
func (t *Table[K, V]) LocalDepth(dirIndex int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dir[dirIndex].localDepth
}

// NumBuckets returns the number of distinct buckets
func (t *Table[K, V]) NumBuckets() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.numBuckets
}
