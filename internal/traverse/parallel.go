package traverse

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/idelchi/dirscan/internal/observer"
	"github.com/idelchi/dirscan/internal/resource"
)

// Parallel walks with fastwalk, listing directories from several goroutines.
//
// Observer calls are serialized, so observers never run concurrently, but entries from
// different subtrees interleave: only order-independent observers should be used with it.
type Parallel struct {
	workers  int
	filter   *filter
	sink     io.Writer
	notifier observer.Notifier
}

// NewParallel creates a Parallel walker on the operating system filesystem.
// workers <= 0 lets fastwalk choose.
func NewParallel(workers int, opt Options, sink io.Writer, notifier observer.Notifier) (*Parallel, error) {
	f, err := newFilter(opt)
	if err != nil {
		return nil, err
	}

	if notifier == nil {
		notifier = observer.Nop{}
	}

	return &Parallel{workers: workers, filter: f, sink: sink, notifier: notifier}, nil
}

// Traverse walks root. Filesystem errors are reported to the notifier and skipped.
//
//nolint:varnamelen // d is standard for DirEntry
func (p *Parallel) Traverse(ctx context.Context, root string, observers ...observer.Observer) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving absolute path: %w", err)
	}

	conf := &fastwalk.Config{
		Follow:     false, // Don't follow symlinks
		NumWorkers: p.workers,
	}

	// Guards observers and the notifier, which fastwalk would otherwise call concurrently.
	var mu sync.Mutex

	notify := func(e observer.Event) {
		mu.Lock()
		defer mu.Unlock()
		p.notifier.Notify(e)
	}

	walkErr := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			kind := observer.EventStatFailed
			if d != nil && d.IsDir() {
				kind = observer.EventListFailed
			}

			notify(observer.Event{Kind: kind, Path: filepath.ToSlash(path), Message: "accessing path", Err: err})

			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		depth := calculateDepth(path, root)
		if p.filter.beyond(depth) {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if depth > 0 {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return fmt.Errorf("relating %q to root %q: %w", path, root, err)
			}

			if reason := p.filter.skip(path, rel, d.IsDir()); reason != "" {
				notify(observer.Event{Kind: observer.EventSkipped, Path: filepath.ToSlash(path), Message: reason})

				if d.IsDir() {
					return filepath.SkipDir
				}

				return nil
			}
		}

		info, err := d.Info()
		if err != nil {
			notify(observer.Event{Kind: observer.EventStatFailed, Path: filepath.ToSlash(path), Message: "reading metadata", Err: err})

			return nil //nolint:nilerr // Intentionally skip errors during walk
		}

		targetIsDir := false

		if info.Mode()&fs.ModeSymlink != 0 {
			if target, err := os.Stat(path); err == nil {
				targetIsDir = target.IsDir()
			}
		}

		meta := resource.FromFileInfo(path, info, targetIsDir)

		mu.Lock()
		defer mu.Unlock()

		return dispatch(meta, observers, p.sink, p.notifier)
	})
	if walkErr != nil {
		return walkErr
	}

	return nil
}
