package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Int32Hasher hashes a 32-bit integer key with xxhash.
// page ids are small and dense, so hashing them (instead of using the raw
// value) spreads consecutive ids across buckets.
func Int32Hasher[K ~int32](key K) uint64 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(key))
	return xxhash.Sum64(buf[:])
}

// Int64Hasher hashes a 64-bit integer key with xxhash
func Int64Hasher[K ~int64 | ~int](key K) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(key))
	return xxhash.Sum64(buf[:])
}

// StringHasher hashes a string key with xxhash
func StringHasher[K ~string](key K) uint64 {
	return xxhash.Sum64String(string(key))
}
