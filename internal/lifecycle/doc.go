// Package lifecycle provides a reference-counted guard around one-time
// subsystem initialization.
//
// A Counter runs its Init hook when the first guard is acquired and its
// Teardown hook when the last guard is released, so any number of front ends
// alive in one process share a single initialized subsystem. Guards are meant
// to be released with defer immediately after a successful Acquire.
package lifecycle
