// Package archive stores individual files in zip archives next to them.
package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/klauspost/compress/zip"
	"github.com/sourcegraph/conc/pool"
)

// Extension is appended to every source path to name its archive.
const Extension = ".zip"

// Result is the outcome of compressing one file.
type Result struct {
	// Source is the input file.
	Source string
	// Archive is the written archive, empty on failure.
	Archive string
	// Err is the failure, if any.
	Err error
}

// Compress writes <file>.zip for every file, holding a single stored entry named after the
// file's base name. Files are processed by at most workers goroutines (<= 0 uses the CPU count).
// Results are returned in input order; one failure does not stop the others.
func Compress(ctx context.Context, files []string, workers int) []Result {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(files))
	p := pool.New().WithMaxGoroutines(workers)

	for i, file := range files {
		p.Go(func() {
			results[i] = Result{Source: file}

			if err := ctx.Err(); err != nil {
				results[i].Err = err

				return
			}

			archive, err := compressFile(file)
			results[i].Archive = archive
			results[i].Err = err
		})
	}

	p.Wait()

	return results
}

// compressFile writes the archive for a single file and returns its path.
func compressFile(file string) (archive string, err error) {
	src, err := os.Open(file)
	if err != nil {
		return "", fmt.Errorf("opening %q: %w", file, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", fmt.Errorf("reading metadata of %q: %w", file, err)
	}

	if info.IsDir() {
		return "", fmt.Errorf("%q is a directory", file)
	}

	archive = file + Extension

	dst, err := os.Create(archive)
	if err != nil {
		return "", fmt.Errorf("creating archive %q: %w", archive, err)
	}

	defer func() {
		if cerr := dst.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing archive %q: %w", archive, cerr)
		}

		if err != nil {
			_ = os.Remove(archive)
			archive = ""
		}
	}()

	zw := zip.NewWriter(dst)

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return archive, fmt.Errorf("building header for %q: %w", file, err)
	}

	header.Name = filepath.Base(file)
	header.Method = zip.Store

	entry, err := zw.CreateHeader(header)
	if err != nil {
		return archive, fmt.Errorf("starting entry for %q: %w", file, err)
	}

	if _, err := io.Copy(entry, src); err != nil {
		return archive, fmt.Errorf("copying %q: %w", file, err)
	}

	if err := zw.Close(); err != nil {
		return archive, fmt.Errorf("finishing archive %q: %w", archive, err)
	}

	return archive, nil
}
