// Package listing records every visited resource and prints them as a table.
package listing

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/idelchi/dirscan/internal/observer"
	"github.com/idelchi/dirscan/internal/resource"
)

// Name identifies the listing observer.
const Name = "listing"

// Observer keeps the metadata of every visited resource in visit order.
type Observer struct {
	records []resource.Metadata
	format  string
}

// NewObserver returns an empty listing. format is "table" or "json".
func NewObserver(format string) *Observer {
	if format == "" {
		format = "table"
	}

	return &Observer{format: format}
}

// Visit implements observer.Observer.
func (o *Observer) Visit(meta resource.Metadata, _ io.Writer, _ observer.Notifier) error {
	o.records = append(o.records, meta)

	return nil
}

// Records returns the visited resources in visit order.
func (o *Observer) Records() []resource.Metadata {
	return o.records
}

// Recap implements observer.Observer.
func (o *Observer) Recap(sink io.Writer, _ observer.Notifier) error {
	switch o.format {
	case "json":
		data, err := json.MarshalIndent(o.records, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON output: %w", err)
		}

		if _, err := fmt.Fprintln(sink, string(data)); err != nil {
			return fmt.Errorf("writing listing: %w", err)
		}

		return nil
	case "table":
		return o.table(sink)
	default:
		return fmt.Errorf("unknown output format: %s", o.format)
	}
}

// table renders the records with tablewriter, which does not report write errors itself.
func (o *Observer) table(sink io.Writer) error {
	ew := &errWriter{w: sink}

	table := tablewriter.NewWriter(ew)
	table.SetHeader([]string{"Path", "Kind", "Size", "Modified"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)

	for _, r := range o.records {
		modified := ""
		if !r.ModTime.IsZero() {
			modified = r.ModTime.Format(time.RFC3339)
		}

		table.Append([]string{r.Path, r.Kind().String(), strconv.FormatUint(r.Size, 10), modified})
	}

	table.Render()

	if ew.err != nil {
		return fmt.Errorf("writing listing: %w", ew.err)
	}

	return nil
}

// Name implements observer.Observer.
func (o *Observer) Name() string {
	return Name
}

// errWriter remembers the first write failure and drops everything after it.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}

	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}

	return n, err
}
