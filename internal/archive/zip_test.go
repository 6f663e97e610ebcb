package archive_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/dirscan/internal/archive"
)

func TestCompressRoundTrip(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(file, []byte("Test content\n"), 0o600))

	results := archive.Compress(context.Background(), []string{file}, 1)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, file+".zip", results[0].Archive)

	reader, err := zip.OpenReader(results[0].Archive)
	require.NoError(t, err)
	t.Cleanup(func() { reader.Close() })

	require.Len(t, reader.File, 1)
	assert.Equal(t, "notes.txt", reader.File[0].Name)
	assert.Equal(t, zip.Store, reader.File[0].Method)

	rc, err := reader.File[0].Open()
	require.NoError(t, err)

	defer rc.Close()

	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "Test content\n", string(content))
}

func TestCompressKeepsInputOrderAndIsolatesFailures(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "missing.txt"),
		filepath.Join(dir, "b.txt"),
		dir,
	}
	require.NoError(t, os.WriteFile(files[0], []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(files[2], []byte("b"), 0o600))

	results := archive.Compress(context.Background(), files, 3)
	require.Len(t, results, 4)

	for i, r := range results {
		assert.Equal(t, files[i], r.Source)
	}

	require.NoError(t, results[0].Err)
	require.Error(t, results[1].Err)
	require.NoError(t, results[2].Err)
	require.Error(t, results[3].Err)
	assert.Empty(t, results[1].Archive)
	assert.FileExists(t, files[2]+".zip")
}

func TestCompressCancelled(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := archive.Compress(ctx, []string{file}, 0)
	require.ErrorIs(t, results[0].Err, context.Canceled)
	assert.NoFileExists(t, file+".zip")
}
