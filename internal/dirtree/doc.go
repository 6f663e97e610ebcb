// Package dirtree rebuilds a directory tree from a stream of visited resources
// and reports, for every directory, the count and size of its immediate children.
//
// The tree is built online from full paths: every path is split into segments and walked
// from a synthetic root. Intermediate segments always become nodes, while the final segment
// becomes a node only when the resource is a directory. Aggregates never include
// grandchildren, and the result does not depend on the order in which paths arrive.
package dirtree
