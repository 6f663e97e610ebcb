package resource_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/dirscan/internal/resource"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		meta resource.Metadata
		want resource.Kind
	}{
		{name: "file", meta: resource.Metadata{Path: "/a/f"}, want: resource.KindFile},
		{name: "directory", meta: resource.Metadata{Path: "/a", IsDir: true}, want: resource.KindDirectory},
		{name: "symlink to file", meta: resource.Metadata{Path: "/l", IsSymlink: true}, want: resource.KindSymlink},
		{
			name: "symlink to directory",
			meta: resource.Metadata{Path: "/l", IsDir: true, IsSymlink: true},
			want: resource.KindSymlink,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.meta.Kind())
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "file", resource.KindFile.String())
	assert.Equal(t, "dir", resource.KindDirectory.String())
	assert.Equal(t, "symlink", resource.KindSymlink.String())
}

func TestFromFileInfo(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "foo.txt")
	require.NoError(t, os.WriteFile(file, []byte("hello"), 0o600))

	info, err := os.Lstat(file)
	require.NoError(t, err)

	meta := resource.FromFileInfo(file, info, false)
	assert.Equal(t, filepath.ToSlash(file), meta.Path)
	assert.Equal(t, "foo.txt", meta.Name())
	assert.False(t, meta.IsDir)
	assert.False(t, meta.IsSymlink)
	assert.EqualValues(t, 5, meta.Size)
	assert.Equal(t, info.ModTime(), meta.ModTime)
}

func TestFromFileInfoSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	require.NoError(t, os.Mkdir(target, 0o755))

	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	info, err := os.Lstat(link)
	require.NoError(t, err)

	meta := resource.FromFileInfo(link, info, true)
	assert.True(t, meta.IsSymlink)
	assert.True(t, meta.IsDir)
	assert.Equal(t, resource.KindSymlink, meta.Kind())
}
