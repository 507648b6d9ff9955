package log

import (
	stdlog "log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesAndRedirects(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	defer Close()

	Printf("merged %d records", 42)
	stdlog.Println("library chatter")
	require.NoError(t, Close())

	data, err := os.ReadFile(filepath.Join(dir, fileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "merged 42 records")
	assert.Contains(t, string(data), "library chatter")
}

func TestErrorf_AppendsToFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	Errorf("sync failed: %v", os.ErrNotExist)
	require.NoError(t, Close())

	data, err := os.ReadFile(filepath.Join(dir, fileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "sync failed")
}

func TestPrintf_BeforeInitDoesNotPanic(t *testing.T) {
	require.NoError(t, Close())
	Printf("no log file yet")
}
