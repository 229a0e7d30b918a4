/*
This file defines opener interface and its implementations.
We don't want to execute disk I/O in test, so it's better to use byte slice instead of actual file in test.
For this reason, opener interface is defined. Opener opens its storage. The implementations are:
- fileOpener: open and return the data file.
- bufferOpener: open and return byte slice. this is intended to be used in test.
*/
package disk

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// opener opens storage
type opener interface {
	open() (storage, error)
}

// fileOpener opens the data file under base directory
type fileOpener struct {
	baseDir string
}

// newFileOpener initializes fileOpener
func newFileOpener(baseDir string) *fileOpener {
	return &fileOpener{baseDir: baseDir}
}

// open opens and returns the data file under base directory
func (fo *fileOpener) open() (storage, error) {
	// check whether the directory already exists
	if _, err := os.Stat(fo.baseDir); os.IsNotExist(err) {
		if err := os.MkdirAll(fo.baseDir, 0700); err != nil {
			return nil, errors.Wrap(err, "os.MkdirAll failed")
		}
	}
	filePath := filepath.Join(fo.baseDir, dataFileName)
	fd, err := os.OpenFile(filePath, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, errors.Wrap(err, "os.OpenFile failed")
	}
	return fileStorage{fd}, nil
}

// bufferOpener opens buffer
type bufferOpener struct{}

// newBufferOpener initializes bufferOpener
func newBufferOpener() *bufferOpener {
	return &bufferOpener{}
}

// open returns fresh buffer storage
func (bo *bufferOpener) open() (storage, error) {
	return newBufferStorage(), nil
}
