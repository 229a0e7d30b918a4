/*
Engine is the composition root: it builds the disk manager and the buffer
pool manager from a configuration and owns their lifecycle. Access methods
and indexes attach here and consume the buffer manager as a block device.
*/
package engine

import (
	"github.com/pkg/errors"

	"github.com/cao1629/minibase/config"
	"github.com/cao1629/minibase/storage/buffer"
	"github.com/cao1629/minibase/storage/disk"
)

// Engine owns the storage managers
type Engine struct {
	dm *disk.Manager
	bm *buffer.Manager
}

// New initializes the engine from the configuration
func New(cfg *config.Config) (*Engine, error) {
	dm, err := disk.NewManager(cfg.Storage.Dir)
	if err != nil {
		return nil, errors.Wrap(err, "disk.NewManager failed")
	}
	bm := buffer.NewManager(dm, cfg.Storage.PoolSize, cfg.Storage.ReplacerK)
	return &Engine{
		dm: dm,
		bm: bm,
	}, nil
}

// BufferManager returns the buffer pool manager
func (e *Engine) BufferManager() *buffer.Manager {
	return e.bm
}

// DiskManager returns the disk manager
func (e *Engine) DiskManager() *disk.Manager {
	return e.dm
}

// Close writes every resident page out, syncs the data file and closes it.
// durability is only guaranteed for pages that were unpinned before Close.
func (e *Engine) Close() error {
	if err := e.bm.FlushAllPages(); err != nil {
		return errors.Wrap(err, "bm.FlushAllPages failed")
	}
	if err := e.dm.Sync(); err != nil {
		return errors.Wrap(err, "dm.Sync failed")
	}
	if err := e.dm.Close(); err != nil {
		return errors.Wrap(err, "dm.Close failed")
	}
	return nil
}
