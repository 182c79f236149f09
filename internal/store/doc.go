// Package store provides SQLite-backed run history for evaluated scenarios.
//
// Each run is identified by a content hash of the scenario name, its
// canonical result snapshot and its pass/fail status (see
// snapshot.RunID). Recording the same outcome twice is a no-op, so the
// history lists distinct outcomes in the order they were first seen.
//
// # Ordering
//
// Runs carry a logical sequence number assigned at insert time. All
// queries order by seq, never by wall time, so history output is
// reproducible.
//
// # Database Configuration
//
// The database runs in WAL mode with synchronous=NORMAL and a five second
// busy timeout. PRAGMA user_version holds the schema version; Open refuses
// a history whose version is newer than this package knows.
package store
