package traverse

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/idelchi/dirscan/internal/observer"
	"github.com/idelchi/dirscan/internal/resource"
)

// Walker visits the subtree at root and dispatches every entry to observers.
type Walker interface {
	Traverse(ctx context.Context, root string, observers ...observer.Observer) error
}

// Engine is a single-threaded depth-first walker.
// Each entry is dispatched to every observer, in registration order, before its children.
type Engine struct {
	fs       FileSystem
	filter   *filter
	sink     io.Writer
	notifier observer.Notifier
}

// New creates an Engine reading from fsys. Observers receive sink and notifier on every call.
func New(fsys FileSystem, opt Options, sink io.Writer, notifier observer.Notifier) (*Engine, error) {
	f, err := newFilter(opt)
	if err != nil {
		return nil, err
	}

	if notifier == nil {
		notifier = observer.Nop{}
	}

	return &Engine{fs: fsys, filter: f, sink: sink, notifier: notifier}, nil
}

// Traverse walks root. Filesystem errors are reported to the notifier and skipped;
// observer errors and context cancellation abort the walk.
func (e *Engine) Traverse(ctx context.Context, root string, observers ...observer.Observer) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving absolute path: %w", err)
	}

	meta, err := e.fs.Stat(root)
	if err != nil {
		e.notifier.Notify(observer.Event{Kind: observer.EventStatFailed, Path: root, Message: "reading metadata", Err: err})

		return nil
	}

	return e.walk(ctx, root, root, meta, 0, observers)
}

// walk dispatches meta and then descends into it when it is a real directory.
//
//nolint:varnamelen // p is the native path of meta
func (e *Engine) walk(
	ctx context.Context,
	root, p string,
	meta resource.Metadata,
	depth int,
	observers []observer.Observer,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := dispatch(meta, observers, e.sink, e.notifier); err != nil {
		return err
	}

	// Symlinks are leaves, even when they point at a directory.
	if meta.Kind() != resource.KindDirectory || e.filter.beyond(depth+1) {
		return nil
	}

	names, err := e.fs.ReadDir(p)
	if err != nil {
		e.notifier.Notify(observer.Event{Kind: observer.EventListFailed, Path: meta.Path, Message: "listing directory", Err: err})

		return nil
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}

		child := filepath.Join(p, name)

		childMeta, err := e.fs.Stat(child)
		if err != nil {
			e.notifier.Notify(observer.Event{Kind: observer.EventStatFailed, Path: child, Message: "reading metadata", Err: err})

			continue
		}

		rel, err := filepath.Rel(root, child)
		if err != nil {
			return fmt.Errorf("relating %q to root %q: %w", child, root, err)
		}

		if reason := e.filter.skip(child, rel, childMeta.Kind() == resource.KindDirectory); reason != "" {
			e.notifier.Notify(observer.Event{Kind: observer.EventSkipped, Path: childMeta.Path, Message: reason})

			continue
		}

		if err := e.walk(ctx, root, child, childMeta, depth+1, observers); err != nil {
			return err
		}
	}

	return nil
}

// dispatch hands meta to every observer in order and stops at the first failure.
func dispatch(meta resource.Metadata, observers []observer.Observer, sink io.Writer, notifier observer.Notifier) error {
	for _, o := range observers {
		if err := o.Visit(meta, sink, notifier); err != nil {
			return fmt.Errorf("visiting %q with %s: %w", meta.Path, o.Name(), err)
		}
	}

	return nil
}
