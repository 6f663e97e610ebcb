package dirtree

import (
	"strings"

	"github.com/google/btree"

	"github.com/idelchi/dirscan/internal/resource"
)

// root is the arena index of the synthetic root node.
const root = 0

// btreeDegree is the branching factor of each children index.
const btreeDegree = 8

// Stats holds the immediate-child aggregates of one directory.
type Stats struct {
	// Name is the last path segment, empty for the root.
	Name string `json:"name"`
	// Files is the number of immediate children that are not directories.
	Files uint64 `json:"files"`
	// Directories is the number of immediate children that are directories.
	Directories uint64 `json:"directories"`
	// Bytes is the summed size of the immediate children.
	Bytes uint64 `json:"bytes"`
}

// child links a segment name to the arena slot of its node.
type child struct {
	name  string
	index int
}

func lessChild(a, b child) bool {
	return a.name < b.name
}

// node is one arena slot.
type node struct {
	stats Stats
	// counted is set once the resource at this node's own path was added to its parent.
	counted  bool
	children *btree.BTreeG[child]
}

// Tree is an arena of directory nodes addressed by index. The zero value is not usable.
type Tree struct {
	nodes []node
}

// New returns a tree holding only the root.
func New() *Tree {
	return &Tree{nodes: []node{{counted: true}}}
}

// Segments splits a slash path into its non-empty segments.
func Segments(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
}

// Add records meta in the aggregates of its parent directory and materializes any
// directory nodes on its path.
func (t *Tree) Add(meta resource.Metadata) {
	segments := Segments(meta.Path)
	if len(segments) == 0 {
		t.count(root, meta)

		return
	}

	current := root
	last := len(segments) - 1

	for i, segment := range segments {
		final := i == last

		if index, ok := t.lookup(current, segment); ok {
			// The node may exist only because a descendant was seen first.
			if final && !t.nodes[index].counted {
				t.count(current, meta)
				t.nodes[index].counted = true
			}

			current = index

			continue
		}

		if !final {
			current = t.insert(current, segment, false)

			continue
		}

		t.count(current, meta)

		switch meta.Kind() {
		case resource.KindDirectory:
			t.insert(current, segment, true)
		case resource.KindFile, resource.KindSymlink:
			// Counted in the parent only: nothing can be attached below it.
		}
	}
}

// count adds meta to the aggregates of the node at index.
func (t *Tree) count(index int, meta resource.Metadata) {
	s := &t.nodes[index].stats
	if meta.IsDir {
		s.Directories++
	} else {
		s.Files++
	}

	s.Bytes += meta.Size
}

func (t *Tree) lookup(parent int, name string) (int, bool) {
	children := t.nodes[parent].children
	if children == nil {
		return 0, false
	}

	c, ok := children.Get(child{name: name})

	return c.index, ok
}

// insert appends a new node under parent and returns its index.
func (t *Tree) insert(parent int, name string, counted bool) int {
	index := len(t.nodes)
	t.nodes = append(t.nodes, node{stats: Stats{Name: name}, counted: counted})

	if t.nodes[parent].children == nil {
		t.nodes[parent].children = btree.NewG(btreeDegree, lessChild)
	}

	t.nodes[parent].children.ReplaceOrInsert(child{name: name, index: index})

	return index
}

// Len returns the number of nodes, root included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Root returns the aggregates of the root.
func (t *Tree) Root() Stats {
	return t.nodes[root].stats
}

// Lookup returns the aggregates of the directory at the slash path.
// "" and "/" address the root.
func (t *Tree) Lookup(path string) (Stats, bool) {
	current := root

	for _, segment := range Segments(path) {
		index, ok := t.lookup(current, segment)
		if !ok {
			return Stats{}, false
		}

		current = index
	}

	return t.nodes[current].stats, true
}

// childIndexes returns the children of the node at index in name order.
func (t *Tree) childIndexes(index int) []int {
	children := t.nodes[index].children
	if children == nil {
		return nil
	}

	out := make([]int, 0, children.Len())
	children.Ascend(func(c child) bool {
		out = append(out, c.index)

		return true
	})

	return out
}

// WalkFunc is called for every node. path is the slash path of the node ("/" for the root)
// and depth its distance from the root.
type WalkFunc func(path string, depth int, stats Stats) error

// Walk calls fn for every node in pre-order, children sorted by name,
// and stops at the first error.
func (t *Tree) Walk(fn WalkFunc) error {
	return t.walk(root, "/", 0, fn)
}

func (t *Tree) walk(index int, path string, depth int, fn WalkFunc) error {
	if err := fn(path, depth, t.nodes[index].stats); err != nil {
		return err
	}

	for _, c := range t.childIndexes(index) {
		childPath := strings.TrimSuffix(path, "/") + "/" + t.nodes[c].stats.Name
		if err := t.walk(c, childPath, depth+1, fn); err != nil {
			return err
		}
	}

	return nil
}
