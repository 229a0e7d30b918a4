package disk

import (
	"testing"

	"github.com/pkg/errors"
)

// TestingNewFileManager initializes disk manager with file storage under t.TempDir()
// so that the generated file is removed after the test completes.
func TestingNewFileManager(t *testing.T) (*Manager, error) {
	return NewManager(t.TempDir())
}

// TestingNewBufferManager initializes disk manager with buffer storage instead of file storage.
// This prevents unnecessary disk I/O.
func TestingNewBufferManager() (*Manager, error) {
	st, err := newBufferOpener().open()
	if err != nil {
		return nil, errors.Wrap(err, "open failed")
	}
	return newManagerWithStorage(st)
}
