package buffer

import (
	"github.com/pkg/errors"

	"github.com/cao1629/minibase/storage/disk"
)

// testingPoolSize is the default pool size in tests, small enough to exhaust
const testingPoolSize = 10

// testingReplacerK is the default K in tests
const testingReplacerK = 2

// TestingNewManager initializes the buffer pool manager backed by in-memory
// disk storage, so tests execute no disk I/O.
func TestingNewManager(poolSize, replacerK int) (*Manager, error) {
	dm, err := disk.TestingNewBufferManager()
	if err != nil {
		return nil, errors.Wrap(err, "disk.TestingNewBufferManager failed")
	}
	return NewManager(dm, poolSize, replacerK), nil
}

// TestingNewDefaultManager initializes the buffer pool manager with the
// default testing pool size and K
func TestingNewDefaultManager() (*Manager, error) {
	return TestingNewManager(testingPoolSize, testingReplacerK)
}
