package listing_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/dirscan/internal/listing"
	"github.com/idelchi/dirscan/internal/observer"
	"github.com/idelchi/dirscan/internal/resource"
)

func records() []resource.Metadata {
	modified := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	return []resource.Metadata{
		{Path: "/path/to", IsDir: true, Size: 96, ModTime: modified},
		{Path: "/path/to/file1", Size: 10, ModTime: modified},
		{Path: "/path/to/link", IsSymlink: true, Size: 4},
	}
}

func TestRecordsKeepVisitOrder(t *testing.T) {
	o := listing.NewObserver("")
	for _, r := range records() {
		require.NoError(t, o.Visit(r, io.Discard, observer.Nop{}))
	}

	assert.Equal(t, records(), o.Records())
	assert.Equal(t, "listing", o.Name())
}

func TestRecapTable(t *testing.T) {
	o := listing.NewObserver("table")
	for _, r := range records() {
		require.NoError(t, o.Visit(r, io.Discard, observer.Nop{}))
	}

	var buf bytes.Buffer

	require.NoError(t, o.Recap(&buf, observer.Nop{}))

	out := buf.String()
	assert.Contains(t, out, "PATH")
	assert.Contains(t, out, "/path/to/file1")
	assert.Contains(t, out, "symlink")
	assert.Contains(t, out, "2024-03-01T12:00:00Z")
}

func TestRecapJSON(t *testing.T) {
	o := listing.NewObserver("json")
	for _, r := range records() {
		require.NoError(t, o.Visit(r, io.Discard, observer.Nop{}))
	}

	var buf bytes.Buffer

	require.NoError(t, o.Recap(&buf, observer.Nop{}))

	var got []resource.Metadata
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "/path/to/link", got[2].Path)
	assert.True(t, got[2].IsSymlink)
}

func TestRecapErrors(t *testing.T) {
	require.Error(t, listing.NewObserver("yaml").Recap(io.Discard, observer.Nop{}))

	boom := errors.New("broken pipe")

	o := listing.NewObserver("table")
	require.NoError(t, o.Visit(records()[0], io.Discard, observer.Nop{}))
	require.ErrorIs(t, o.Recap(failing{err: boom}, observer.Nop{}), boom)
}

type failing struct{ err error }

func (f failing) Write([]byte) (int, error) { return 0, f.err }
