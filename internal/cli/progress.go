package cli

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/idelchi/dirscan/internal/observer"
	"github.com/idelchi/dirscan/internal/resource"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// progress counts visited entries for the status line and the final log entry.
// It is read from the reporter goroutine.
type progress struct {
	entries  atomic.Int64
	files    atomic.Int64
	dirs     atomic.Int64
	symlinks atomic.Int64
	bytes    atomic.Uint64
}

// Visit implements observer.Observer.
func (p *progress) Visit(meta resource.Metadata, _ io.Writer, _ observer.Notifier) error {
	p.entries.Add(1)
	p.bytes.Add(meta.Size)

	switch meta.Kind() {
	case resource.KindDirectory:
		p.dirs.Add(1)
	case resource.KindSymlink:
		p.symlinks.Add(1)
	case resource.KindFile:
		p.files.Add(1)
	}

	return nil
}

// Recap implements observer.Observer; the status line has nothing to flush.
func (p *progress) Recap(io.Writer, observer.Notifier) error {
	return nil
}

// Name implements observer.Observer.
func (p *progress) Name() string {
	return "progress"
}

// startProgressReporter invokes hook(entries, bytes) on each tick until ctx is done.
func startProgressReporter(ctx context.Context, p *progress, hook func(int64, uint64), interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(p.entries.Load(), p.bytes.Load())
			case <-ctx.Done():
				return
			}
		}
	}()
}
