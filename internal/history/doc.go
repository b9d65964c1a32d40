// Package history persists render jobs to a SQLite ledger so past runs can
// be listed, inspected, and recovered after a crash.
package history
