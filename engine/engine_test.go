package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cao1629/minibase/config"
	"github.com/cao1629/minibase/storage/page"
)

func testingConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.Dir = t.TempDir()
	cfg.Storage.PoolSize = 4
	return cfg
}

func TestEngineSurvivesReopen(t *testing.T) {
	cfg := testingConfig(t)

	e, err := New(cfg)
	require.Nil(t, err)

	frame, err := e.BufferManager().NewPage()
	require.Nil(t, err)
	pageID := frame.PageID()
	copy(frame.Data()[:], "survives reopen")
	ok := e.BufferManager().UnpinPage(pageID, true)
	require.True(t, ok)

	err = e.Close()
	require.Nil(t, err)

	// a new engine over the same directory sees the page content
	e, err = New(cfg)
	require.Nil(t, err)
	fetched, err := e.BufferManager().FetchPage(pageID)
	require.Nil(t, err)
	assert.Equal(t, []byte("survives reopen"), fetched.Data()[:len("survives reopen")])
	ok = e.BufferManager().UnpinPage(pageID, false)
	require.True(t, ok)

	// allocation resumes after the persisted pages
	next, err := e.BufferManager().NewPage()
	require.Nil(t, err)
	assert.Equal(t, pageID+1, next.PageID())
	ok = e.BufferManager().UnpinPage(next.PageID(), false)
	require.True(t, ok)

	err = e.Close()
	require.Nil(t, err)
}

func TestEngineWorkloadLargerThanPool(t *testing.T) {
	cfg := testingConfig(t)

	e, err := New(cfg)
	require.Nil(t, err)

	// touch three times the pool size so pages cycle through eviction
	n := cfg.Storage.PoolSize * 3
	ids := make([]page.PageID, 0, n)
	for i := 0; i < n; i++ {
		frame, err := e.BufferManager().NewPage()
		require.Nil(t, err)
		frame.Data()[0] = byte(i)
		ids = append(ids, frame.PageID())
		ok := e.BufferManager().UnpinPage(frame.PageID(), true)
		require.True(t, ok)
	}

	for i, pageID := range ids {
		frame, err := e.BufferManager().FetchPage(pageID)
		require.Nil(t, err)
		assert.Equal(t, byte(i), frame.Data()[0])
		ok := e.BufferManager().UnpinPage(pageID, false)
		require.True(t, ok)
	}

	err = e.Close()
	require.Nil(t, err)
}
