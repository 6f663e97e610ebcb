// Package summary aggregates whole-walk statistics: totals per kind, per-extension usage
// and the largest files.
package summary

import (
	"path"
	"sort"
	"strings"
	"time"
)

// ExtStat represents statistics for a file extension.
type ExtStat struct {
	// Count is the number of files with this extension.
	Count int `json:"count"`
	// Size is the cumulative size in bytes.
	Size uint64 `json:"size"`
}

// FileStat represents a single file path and size.
type FileStat struct {
	// Path is the file path.
	Path string `json:"path"`
	// Size is the size in bytes.
	Size uint64 `json:"size"`
}

// Stats holds aggregate statistics for a walk.
type Stats struct {
	// ScanID identifies the run that produced the statistics.
	ScanID string `json:"scan_id,omitempty"`
	// FileCount is the total number of files analyzed.
	FileCount int64 `json:"file_count"`
	// DirCount is the number of directories visited.
	DirCount int64 `json:"dir_count"`
	// SymlinkCount is the number of symlinks visited.
	SymlinkCount int64 `json:"symlink_count"`
	// TotalBytes is the cumulative size of all analyzed files.
	TotalBytes uint64 `json:"total_bytes"`
	// ExtStats maps file extensions to their statistics.
	ExtStats map[string]ExtStat `json:"ext_stats"`
	// TopFiles contains the N largest files, smallest first.
	TopFiles []FileStat `json:"top_files"`
	// ErrorCount is the number of entries that could not be read.
	ErrorCount int64 `json:"error_count"`
	// Elapsed is the time between the creation of the observer and its recap.
	Elapsed time.Duration `json:"elapsed"`
	// TopN is the number of top results tracked.
	TopN int `json:"top_n"`
}

// collector aggregates statistics from visited files.
type collector struct {
	topN       int
	extStats   map[string]ExtStat
	topFiles   []FileStat
	fileCount  int64
	dirCount   int64
	linkCount  int64
	totalBytes uint64
	errorCount int64
}

// newCollector creates a collector with the requested configuration.
func newCollector(topN int) *collector {
	return &collector{
		topN:     topN,
		extStats: make(map[string]ExtStat),
		topFiles: make([]FileStat, 0),
	}
}

// addFile records a file under its extension and as a candidate for the top list.
func (c *collector) addFile(p string, size uint64) {
	c.fileCount++
	c.totalBytes += size

	ext := path.Ext(p)
	stat := c.extStats[ext]
	stat.Count++
	stat.Size += size
	c.extStats[ext] = stat

	// Collect all files, we'll sort and trim later
	c.topFiles = append(c.topFiles, FileStat{Path: p, Size: size})
}

// finalize produces the final Stats from the collected data.
// It extracts the top N files by size, listed smallest first.
func (c *collector) finalize() *Stats {
	files := append([]FileStat(nil), c.topFiles...)

	// Sort by size (largest first), path as tie-break, and trim to top N
	sort.Slice(files, func(i, j int) bool {
		if files[i].Size != files[j].Size {
			return files[i].Size > files[j].Size
		}

		return files[i].Path < files[j].Path
	})

	if len(files) > c.topN {
		files = files[:c.topN]
	}

	// Reverse for display (smallest first, displayed in reverse)
	topFiles := make([]FileStat, len(files))
	for i := range files {
		topFiles[i] = files[len(files)-1-i]
	}

	extStats := make(map[string]ExtStat, len(c.extStats))
	for ext, stat := range c.extStats {
		extStats[ext] = stat
	}

	return &Stats{
		FileCount:    c.fileCount,
		DirCount:     c.dirCount,
		SymlinkCount: c.linkCount,
		TotalBytes:   c.totalBytes,
		ExtStats:     extStats,
		TopFiles:     topFiles,
		ErrorCount:   c.errorCount,
		TopN:         c.topN,
	}
}

// extensionFilter holds include and exclude suffix sets.
type extensionFilter struct {
	include map[string]struct{}
	exclude map[string]struct{}
}

// newExtensionFilter parses suffixes; a '!' prefix marks an exclusion.
func newExtensionFilter(extensions []string) extensionFilter {
	f := extensionFilter{
		include: make(map[string]struct{}, len(extensions)),
		exclude: make(map[string]struct{}, len(extensions)),
	}

	for _, e := range extensions { //nolint:varnamelen // e is standard for element in range
		e = strings.Trim(e, "'\"") // Strip quotes first

		if strings.HasPrefix(e, "!") {
			f.exclude[strings.TrimPrefix(e, "!")] = struct{}{}
		} else if e != "" {
			f.include[e] = struct{}{}
		}
	}

	return f
}

// allows checks if a file name should be included based on extension filters.
func (f extensionFilter) allows(p string) bool {
	// Check excludes first
	for ext := range f.exclude {
		if strings.HasSuffix(p, ext) {
			return false
		}
	}
	// If no include filter, include all
	if len(f.include) == 0 {
		return true
	}
	// Check includes
	for ext := range f.include {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}

	return false
}
