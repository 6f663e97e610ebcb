package summary

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/idelchi/dirscan/internal/observer"
	"github.com/idelchi/dirscan/internal/resource"
)

// Name identifies the summary observer.
const Name = "summary"

// DefaultTopN is used when Options.TopN is not positive.
const DefaultTopN = 10

// Options configures the summary observer.
type Options struct {
	// ScanID is copied into the final statistics.
	ScanID string
	// Extensions to include (empty = all); a '!' prefix excludes.
	Extensions []string
	// MinSize is the minimum file size in bytes.
	MinSize uint64
	// TopN is the number of largest files to report.
	TopN int
	// Format is "table" or "json".
	Format string
}

// Observer collects whole-walk statistics. It also counts filesystem failures when
// registered as a notifier.
type Observer struct {
	opt       Options
	filter    extensionFilter
	collector *collector
	start     time.Time
}

// NewObserver creates a summary observer. The elapsed time starts now.
func NewObserver(opt Options) *Observer {
	if opt.TopN <= 0 {
		opt.TopN = DefaultTopN
	}

	if opt.Format == "" {
		opt.Format = "table"
	}

	return &Observer{
		opt:       opt,
		filter:    newExtensionFilter(opt.Extensions),
		collector: newCollector(opt.TopN),
		start:     time.Now(),
	}
}

// Visit implements observer.Observer.
func (o *Observer) Visit(meta resource.Metadata, _ io.Writer, _ observer.Notifier) error {
	switch meta.Kind() {
	case resource.KindDirectory:
		o.collector.dirCount++
	case resource.KindSymlink:
		o.collector.linkCount++
	case resource.KindFile:
		if meta.Size < o.opt.MinSize || !o.filter.allows(meta.Name()) {
			return nil
		}

		o.collector.addFile(meta.Path, meta.Size)
	}

	return nil
}

// Notify implements observer.Notifier by counting unreadable entries.
func (o *Observer) Notify(e observer.Event) {
	if e.Kind == observer.EventStatFailed || e.Kind == observer.EventListFailed {
		o.collector.errorCount++
	}
}

// Stats returns the statistics gathered so far.
func (o *Observer) Stats() *Stats {
	stats := o.collector.finalize()
	stats.ScanID = o.opt.ScanID
	stats.Elapsed = time.Since(o.start)

	return stats
}

// Recap implements observer.Observer.
func (o *Observer) Recap(sink io.Writer, _ observer.Notifier) error {
	switch strings.ToLower(o.opt.Format) {
	case "json":
		return PrintJSON(o.Stats(), sink)
	case "table":
		return PrintTable(o.Stats(), sink)
	default:
		return fmt.Errorf("unknown output format: %s", o.opt.Format)
	}
}

// Name implements observer.Observer.
func (o *Observer) Name() string {
	return Name
}
