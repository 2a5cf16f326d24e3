// Package main hosts the mosys CLI entrypoint.
//
// The root command loads configuration, opens the logging facility for the
// lifetime of the run, takes the machine lock, resolves the platform, and
// hands the remaining tokens to the dispatcher. Commands themselves live in
// the platform catalog; this package only wires collaborators together and
// maps outcomes to exit codes.
package main
