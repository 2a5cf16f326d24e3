// Package platforms is the catalog of machines mosys knows how to describe.
//
// Each entry builds a capability tree whose leaves read data through
// sysinfo and print it through a kv.Printer. Dummy never probes and serves
// canned data for tests; Default is the fallback for unrecognized machines.
package platforms
