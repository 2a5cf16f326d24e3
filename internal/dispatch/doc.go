// Package dispatch resolves a sequence of command tokens against a platform's
// capability tree and invokes the selected leaf.
//
// Resolution walks the tree from the root, matching one token per level
// case-insensitively in declared order. Every call ends in exactly one
// terminal Outcome. Listings and usage go to the dispatcher's writer;
// diagnostics go through the Emitter.
package dispatch
