// Package traverse walks a filesystem subtree and dispatches every entry to a set of observers.
//
// Engine performs a single-threaded, depth-first, pre-order walk over a FileSystem.
// Parallel walks with fastwalk instead; it serializes observer calls but gives up pre-order.
// Neither descends into symlinks, and both treat unreadable entries as recoverable.
package traverse
