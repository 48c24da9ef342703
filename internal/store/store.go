// Package store provides persistence for analysis reports keyed by
// request ID. The interface makes the backend pluggable: an in-memory map
// for tests and embedded use, SQLite for production.
package store

import (
	"errors"

	"github.com/anindilla/fix-my-form/internal/analysis"
)

// ErrNotFound is returned when a requested report does not exist.
var ErrNotFound = errors.New("not found")

// ReportStore is the report persistence contract. Implementations must be
// safe for concurrent access; callers assume nothing about report lifetime
// beyond Put/Get/Delete semantics.
type ReportStore interface {
	// Put stores a report under the given ID, replacing any previous one.
	Put(id string, report *analysis.Report) error

	// Get retrieves a report by ID, or ErrNotFound.
	Get(id string) (*analysis.Report, error)

	// Delete removes a report by ID, or ErrNotFound.
	Delete(id string) error

	// List returns the stored report IDs, newest first.
	List() ([]string, error)
}
