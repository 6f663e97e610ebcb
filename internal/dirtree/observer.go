package dirtree

import (
	"fmt"
	"io"
	"strings"

	"github.com/idelchi/dirscan/internal/observer"
	"github.com/idelchi/dirscan/internal/resource"
)

// Name identifies the directory observer.
const Name = "dirtree"

// Format selects how Recap renders the tree.
type Format string

const (
	// FormatText is the indented report.
	FormatText Format = "text"
	// FormatFlat lists every directory by full path.
	FormatFlat Format = "flat"
	// FormatJSON is a nested JSON document.
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatFlat, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown dirtree format %q", s)
	}
}

// Observer aggregates visited resources into a Tree.
type Observer struct {
	tree   *Tree
	format Format
}

// NewObserver returns an Observer with an empty tree.
func NewObserver(format Format) *Observer {
	if format == "" {
		format = FormatText
	}

	return &Observer{tree: New(), format: format}
}

// Visit implements observer.Observer.
func (o *Observer) Visit(meta resource.Metadata, _ io.Writer, _ observer.Notifier) error {
	o.tree.Add(meta)

	return nil
}

// Recap implements observer.Observer.
func (o *Observer) Recap(sink io.Writer, notifier observer.Notifier) error {
	if notifier == nil {
		notifier = observer.Nop{}
	}

	notifier.Notify(observer.Event{
		Kind:    observer.EventInfo,
		Message: fmt.Sprintf("rendering %d directories as %s", o.tree.Len(), o.format),
	})

	switch o.format {
	case FormatFlat:
		return WriteFlat(sink, o.tree)
	case FormatJSON:
		return WriteJSON(sink, o.tree)
	default:
		return WriteText(sink, o.tree)
	}
}

// Name implements observer.Observer.
func (o *Observer) Name() string {
	return Name
}

// Tree returns the tree built so far.
func (o *Observer) Tree() *Tree {
	return o.tree
}
