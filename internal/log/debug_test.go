package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedUntilSetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	Printf("buffered %s", "message")
	require.NoError(t, SetFile(path))
	Printf("direct message")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "buffered message")
	assert.Contains(t, string(data), "direct message")
}

func TestSetFileEmptyDiscards(t *testing.T) {
	Printf("about to be discarded")
	require.NoError(t, SetFile(""))

	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()
	assert.True(t, globalDebugLogger.discard)
	assert.Nil(t, globalDebugLogger.buffer)
}

func TestSetFileBadPath(t *testing.T) {
	err := SetFile(filepath.Join(t.TempDir(), "missing", "debug.log"))
	assert.Error(t, err)

	globalDebugLogger.mu.Lock()
	discard := globalDebugLogger.discard
	globalDebugLogger.mu.Unlock()
	assert.True(t, discard)
}

func TestCloseWithoutFile(t *testing.T) {
	require.NoError(t, SetFile(""))
	assert.NoError(t, Close())
}
