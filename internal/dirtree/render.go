package dirtree

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/valyala/bytebufferpool"
)

// indentWidth is the number of spaces per depth level.
const indentWidth = 2

// appendCounts appends "<files> files, <dirs> directories, <bytes> bytes".
func appendCounts(b []byte, s Stats) []byte {
	b = strconv.AppendUint(b, s.Files, 10)
	b = append(b, " files, "...)
	b = strconv.AppendUint(b, s.Directories, 10)
	b = append(b, " directories, "...)
	b = strconv.AppendUint(b, s.Bytes, 10)

	return append(b, " bytes\n"...)
}

// WriteText writes one indented line per node:
//
//	<indent><name>: <files> files, <dirs> directories, <bytes> bytes
func WriteText(w io.Writer, t *Tree) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	return t.Walk(func(_ string, depth int, s Stats) error {
		buf.Reset()

		for range depth * indentWidth {
			buf.B = append(buf.B, ' ')
		}

		buf.B = append(buf.B, s.Name...)
		buf.B = append(buf.B, ": "...)
		buf.B = appendCounts(buf.B, s)

		if _, err := w.Write(buf.B); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}

		return nil
	})
}

// WriteFlat writes one tab-separated line per node, keyed by its full path:
//
//	<path>\t<files> files, <dirs> directories, <bytes> bytes
func WriteFlat(w io.Writer, t *Tree) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	return t.Walk(func(path string, _ int, s Stats) error {
		buf.Reset()
		buf.B = append(buf.B, path...)
		buf.B = append(buf.B, '\t')
		buf.B = appendCounts(buf.B, s)

		if _, err := w.Write(buf.B); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}

		return nil
	})
}

// jsonNode is the nested JSON form of a node.
type jsonNode struct {
	Stats

	Children []*jsonNode `json:"children,omitempty"`
}

// WriteJSON writes the tree as nested, indented JSON objects.
func WriteJSON(w io.Writer, t *Tree) error {
	var stack []*jsonNode

	var top *jsonNode

	err := t.Walk(func(_ string, depth int, s Stats) error {
		n := &jsonNode{Stats: s}

		stack = stack[:depth]
		if depth == 0 {
			top = n
		} else {
			parent := stack[depth-1]
			parent.Children = append(parent.Children, n)
		}

		stack = append(stack, n)

		return nil
	})
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(top, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	return nil
}
