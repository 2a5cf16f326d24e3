// Package logging provides the severity-filtered logging facility shared by
// every mosys front end in a process.
//
// The Facility owns the process-wide threshold and the slog handlers that
// render records: a console handler for the terminal and an optional rotated
// JSON file. Emission is gated on a lifecycle guard: Emit fails with
// ErrNotReady until some caller holds a guard from Acquire, and the sink is
// opened on the first acquisition and closed when the last guard is released.
//
// Severities follow the syslog ordering extended with Spew. A message passes
// the filter when it is at least as urgent as the current threshold; raising
// verbosity moves the threshold toward Spew.
package logging
