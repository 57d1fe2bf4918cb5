// Package lms provides read-only access to the learning-management-system
// records the transformers enrich events with: users, courses, modules and
// per-activity tables. Lookups are fetched fresh per call, never cached,
// because the backing store reflects concurrent external mutation.
package lms

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no record matches a lookup. Activity builders
// recover from it locally; letting it escape a builder is a defect.
var ErrNotFound = errors.New("lms: record not found")

// Query restricts and orders a multi-record read.
type Query struct {
	// Where matches records whose columns equal the given values.
	Where map[string]interface{}

	// OrderBy names the column to sort on; empty means unspecified order.
	OrderBy string

	// Desc sorts descending when set.
	Desc bool

	// Limit caps the number of returned records; 0 means no cap.
	Limit int
}

// Repository is the read-only record store the transformation core consumes.
// Implementations must return ErrNotFound (possibly wrapped) for missing
// records and must never be written to by the core.
type Repository interface {
	// RecordByID fetches a single record by table name and primary key.
	RecordByID(ctx context.Context, table string, id int64) (Record, error)

	// Records fetches all records of a table matching the query, ordered and
	// limited per the query. An empty result is not an error.
	Records(ctx context.Context, table string, q Query) ([]Record, error)
}
