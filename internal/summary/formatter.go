package summary

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// PrintJSON outputs statistics in JSON format.
func PrintJSON(stats *Stats, writer io.Writer) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// percent returns part as a percentage of total.
func percent(part, total uint64) float64 {
	if total == 0 {
		return 0
	}

	return 100.0 * float64(part) / float64(total)
}

// PrintTable outputs statistics in human-readable table format.
func PrintTable(stats *Stats, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	// Extension statistics
	fmt.Fprintln(w, "\nTop extensions:\t\t")

	extList := make([]string, 0, len(stats.ExtStats))
	for ext := range stats.ExtStats {
		extList = append(extList, ext)
	}

	sort.Slice(extList, func(i, j int) bool {
		a, b := stats.ExtStats[extList[i]], stats.ExtStats[extList[j]]
		if a.Size != b.Size {
			return a.Size < b.Size
		}

		return extList[i] > extList[j]
	})

	startIdx := 0
	if len(extList) > stats.TopN {
		startIdx = len(extList) - stats.TopN
	}

	displayList := extList[startIdx:]
	for i, ext := range displayList {
		extStat := stats.ExtStats[ext]
		if ext == "" {
			ext = "\"\""
		}

		fmt.Fprintf(w, "  %d) %s:\t%d files, %s (%.1f%%)\n",
			len(displayList)-i, ext, extStat.Count, humanize.IBytes(extStat.Size),
			percent(extStat.Size, stats.TotalBytes))
	}

	// Top files
	fmt.Fprintln(w, "\nTop files:\t\t")

	for i, f := range stats.TopFiles {
		fmt.Fprintf(w, "  %d) '%s'\t%s (%.1f%%)\n",
			len(stats.TopFiles)-i, f.Path, humanize.IBytes(f.Size), percent(f.Size, stats.TotalBytes))
	}

	// Stats summary
	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Total files:\t%d\n", stats.FileCount)
	fmt.Fprintf(w, "Total directories:\t%d\n", stats.DirCount)
	fmt.Fprintf(w, "Total symlinks:\t%d\n", stats.SymlinkCount)
	fmt.Fprintf(w, "Total size:\t%s (%d bytes)\n", humanize.IBytes(stats.TotalBytes), stats.TotalBytes)

	if stats.ErrorCount > 0 {
		fmt.Fprintf(w, "Unreadable entries:\t%d\n", stats.ErrorCount)
	}

	fmt.Fprintf(w, "\nElapsed:\t%v\n", stats.Elapsed)

	// tabwriter buffers everything, so write failures surface here.
	return w.Flush()
}
