// Package sqlite provides a SQLite-based implementation of driven.OrderStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files named NNN_description.
//
// # Ordering
//
// Records keep the order they were loaded in through an integer seq key,
// so Find returns the first matching row as it appeared in the source file.
//
// # Data Location
//
// By default, the database is stored at ~/.deskagent/data/orders.db
package sqlite
