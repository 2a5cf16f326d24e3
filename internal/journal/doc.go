// Package journal keeps a local SQLite record of dispatched commands so a
// failed invocation can be diagnosed after the fact.
package journal
