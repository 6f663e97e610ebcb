package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/idelchi/dirscan/internal/config"
	"github.com/idelchi/dirscan/internal/dirtree"
	"github.com/idelchi/dirscan/internal/listing"
	"github.com/idelchi/dirscan/internal/logger"
	"github.com/idelchi/dirscan/internal/observer"
	"github.com/idelchi/dirscan/internal/summary"
	"github.com/idelchi/dirscan/internal/traverse"
)

// runOptions carries everything a scan needs besides the context.
type runOptions struct {
	Config  config.Config
	Roots   []string
	OutPath string
	Stdout  io.Writer
	Stderr  io.Writer
}

// run walks every root with the configured observers and recaps them once at the end.
//
//nolint:funlen // Linear setup of the scan
func run(ctx context.Context, opt runOptions) error {
	cfg := opt.Config

	roots := opt.Roots
	if len(roots) == 0 {
		roots = []string{"."}
	}

	// validate paths exist and are accessible
	for _, root := range roots {
		if _, err := os.Lstat(root); err != nil {
			return fmt.Errorf("accessing path %q: %w", root, err)
		}
	}

	roots, dropped, err := distinctRoots(roots)
	if err != nil {
		return err
	}

	scanID := uuid.NewString()

	log, err := logger.New(opt.Stderr, logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}

	log = log.With().Str("scan", scanID).Logger()

	for _, root := range dropped {
		log.Debug().Str("root", root).Msg("skipping root already covered by another")
	}

	format, err := dirtree.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	minSize, err := cfg.MinSizeBytes()
	if err != nil {
		return err
	}

	stats := summary.NewObserver(summary.Options{
		ScanID:     scanID,
		Extensions: cfg.Extensions,
		MinSize:    minSize,
		TopN:       cfg.Top,
		Format:     cfg.Output,
	})

	tree := dirtree.NewObserver(format)

	selected, err := observer.Select(
		[]observer.Observer{tree, stats, listing.NewObserver(cfg.Output)},
		cfg.Observers,
	)
	if err != nil {
		return err
	}

	failures := &observer.Counter{}
	notifier := observer.Multi{observer.NewLogNotifier(log), stats, failures}

	sink, closeSink, err := openSink(opt.OutPath, opt.Stdout)
	if err != nil {
		return err
	}
	defer closeSink() //nolint:errcheck // Closed explicitly on the success path

	walker, err := newWalker(cfg, sink, notifier)
	if err != nil {
		return err
	}

	// The counter feeds both the status line and the final log entry.
	counter := &progress{}
	visitors := append([]observer.Observer{counter}, selected...)

	enableProgress := opt.OutPath == "" &&
		!strings.EqualFold(cfg.Format, "json") &&
		!strings.EqualFold(cfg.Output, "json") &&
		!strings.EqualFold(cfg.Log.Level, "debug") &&
		isTerminal(opt.Stderr)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(opt.Stderr, "\033[?25l")
		defer fmt.Fprint(opt.Stderr, "\033[?25h")

		progressCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		startProgressReporter(progressCtx, counter, func(entries int64, bytes uint64) {
			msg := fmt.Sprintf("Scanning… %d entries, %s", entries, humanize.IBytes(bytes))
			fmt.Fprintf(opt.Stderr, "\r\033[2K%s\r", msg)
		}, cfg.ProgressInterval)
	}

	log.Debug().
		Strs("roots", roots).
		Strs("observers", cfg.Observers).
		Bool("parallel", cfg.Parallel).
		Msg("starting scan")

	start := time.Now()

	for _, root := range roots {
		if err := walker.Traverse(ctx, root, visitors...); err != nil {
			return fmt.Errorf("walking %q: %w", root, err)
		}

		if s, ok := tree.Tree().Lookup(filepath.ToSlash(root)); ok {
			log.Debug().
				Str("root", root).
				Uint64("files", s.Files).
				Uint64("directories", s.Directories).
				Uint64("bytes", s.Bytes).
				Msg("root scanned")
		}
	}

	// Clear the status line
	if enableProgress {
		fmt.Fprint(opt.Stderr, "\r\033[2K\r")
	}

	if err := observer.Recap(selected, sink, notifier); err != nil {
		return err
	}

	logSummary(log, counter, failures, time.Since(start))

	return closeSink()
}

// newWalker picks the sequential engine or the fastwalk one.
func newWalker(cfg config.Config, sink io.Writer, notifier observer.Notifier) (traverse.Walker, error) {
	opt := traverse.Options{
		Depth:      cfg.Depth,
		Excludes:   cfg.Excludes,
		IgnoreFile: cfg.IgnoreFile,
	}

	if cfg.Parallel {
		return traverse.NewParallel(cfg.Workers, opt, sink, notifier)
	}

	return traverse.New(traverse.OS(), opt, sink, notifier)
}

// logSummary reports the totals of the scan at info level.
func logSummary(log zerolog.Logger, counter *progress, failures *observer.Counter, elapsed time.Duration) {
	log.Info().
		Int64("files", counter.files.Load()).
		Int64("directories", counter.dirs.Load()).
		Int64("symlinks", counter.symlinks.Load()).
		Uint64("bytes", counter.bytes.Load()).
		Int("unreadable", failures.Failures()).
		Dur("elapsed", elapsed).
		Msg("scan complete")
}

// distinctRoots resolves roots to absolute paths and drops repeats and roots nested inside
// another one, which would otherwise be walked twice. Input order is kept.
func distinctRoots(roots []string) (kept, dropped []string, err error) {
	resolved := make([]string, len(roots))

	for i, root := range roots {
		abs, absErr := filepath.Abs(root)
		if absErr != nil {
			return nil, nil, fmt.Errorf("resolving absolute path %q: %w", root, absErr)
		}

		resolved[i] = abs
	}

	for i, root := range resolved {
		covered := false

		for j, other := range resolved {
			if (root == other && j < i) || within(root, other) {
				covered = true

				break
			}
		}

		if covered {
			dropped = append(dropped, root)
		} else {
			kept = append(kept, root)
		}
	}

	return kept, dropped, nil
}

// within reports whether path lies strictly below parent.
func within(path, parent string) bool {
	rel, err := filepath.Rel(parent, path)
	if err != nil || rel == "." {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}
