package traverse

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// Options restricts which entries a walk visits. The zero value visits everything.
type Options struct {
	// Depth is the maximum depth below the root (0=unlimited).
	Depth int
	// Excludes contains regex patterns matched against the slash path.
	Excludes []string
	// IgnoreFile is an optional gitignore-style file.
	IgnoreFile string
}

// filter is the compiled form of Options.
type filter struct {
	depth    int
	excludes []*regexp.Regexp
	ignore   *ignore.GitIgnore
}

// newFilter compiles the exclusion patterns and ignore file.
func newFilter(opt Options) (*filter, error) {
	if opt.Depth < 0 {
		return nil, fmt.Errorf("depth cannot be negative: %d", opt.Depth)
	}

	f := &filter{depth: opt.Depth}

	for _, p := range opt.Excludes {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling exclusion pattern %q: %w", p, err)
		}

		f.excludes = append(f.excludes, re)
	}

	if opt.IgnoreFile != "" {
		gi, err := ignore.CompileIgnoreFile(opt.IgnoreFile)
		if err != nil {
			return nil, fmt.Errorf("compiling ignore file %q: %w", opt.IgnoreFile, err)
		}

		f.ignore = gi
	}

	return f, nil
}

// calculateDepth returns the depth of a path relative to the root.
func calculateDepth(path, root string) int {
	relPath := strings.TrimPrefix(path, root)

	relPath = strings.TrimPrefix(relPath, string(filepath.Separator))
	if relPath == "" {
		return 0
	}

	return strings.Count(relPath, string(filepath.Separator)) + 1
}

// beyond reports whether entries at depth must not be visited.
func (f *filter) beyond(depth int) bool {
	return f.depth > 0 && depth > f.depth
}

// skip returns a non-empty reason when the entry at path must be left out.
// rel is the path relative to the walk root.
func (f *filter) skip(path, rel string, isDir bool) string {
	slashPath := filepath.ToSlash(path)

	for _, re := range f.excludes {
		if re.MatchString(slashPath) {
			return "matched regex " + re.String()
		}
	}

	if f.ignore != nil && rel != "" {
		rel = filepath.ToSlash(rel)
		if isDir {
			rel += "/"
		}

		if f.ignore.MatchesPath(rel) {
			return "matched ignore file"
		}
	}

	return ""
}
