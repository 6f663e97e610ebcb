package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSinkStdout(t *testing.T) {
	var buf bytes.Buffer

	sink, closeFn, err := openSink("", &buf)
	require.NoError(t, err)
	assert.Same(t, &buf, sink)
	require.NoError(t, closeFn())
}

func TestOpenSinkLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")

	held := flock.New(path + ".lock")
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)

	t.Cleanup(func() { _ = held.Unlock() })

	_, _, err = openSink(path, nil)
	require.ErrorContains(t, err, "being written by another scan")
	assert.NoFileExists(t, path)
}

func TestOpenSinkCloseTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")

	_, closeFn, err := openSink(path, nil)
	require.NoError(t, err)
	require.NoError(t, closeFn())
	require.NoError(t, closeFn())
	assert.FileExists(t, path)
	assert.FileExists(t, path+".lock")

	// The lock file stays behind and is reused by the next scan.
	_, closeFn, err = openSink(path, nil)
	require.NoError(t, err)
	require.NoError(t, closeFn())
}
