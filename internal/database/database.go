// Package database provides the SurrealDB connection layer used by the
// document-store backend of the seed tool.
//
// The Database interface keeps SurrealQL execution behind three methods:
//   - Query: returns the raw per-statement results
//   - QueryOne: returns the first record of the first statement
//   - Execute: runs statements for their side effects only
//
// # Error Handling
//
// Every store backend in this repository (SurrealDB, MongoDB, GORM, in-memory)
// maps its native failures onto the sentinels below, so callers only ever
// need errors.Is:
//
//	if errors.Is(err, database.ErrDuplicate) {
//	    // a unique index rejected a document
//	}
package database

import (
	"context"
	"errors"
	"strings"
)

// Standard errors for store operations.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a unique constraint violation (e.g., duplicate email).
	ErrDuplicate = errors.New("duplicate key")

	// ErrConnection indicates the store is unreachable at the configured address.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a statement execution failure.
	ErrQuery = errors.New("query error")
)

// Database defines the interface for SurrealDB operations
type Database interface {
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns results
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns a single result
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query without returning results (for mutations)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config holds database configuration
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}

// IsUniqueViolation reports whether a driver error message describes a
// unique index rejection. SurrealDB, SQLite and MongoDB word this differently.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicate) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") ||
		strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "already contains") ||
		strings.Contains(msg, "already exists")
}
