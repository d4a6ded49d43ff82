package rowstore

import (
	"context"
	"time"

	"github.com/assettrack/apiserver/internal/metrics"
)

// PositionNotFound is returned by Find when no row matches.
const PositionNotFound = -1

// Row is a single table row keyed by header name. All values are text;
// typed records are converted at the store layer.
type Row map[string]string

// Backend defines the row operations a storage backend must provide.
//
// Tables are named; the first row of a table is the header row defining
// the set and order of recognized columns. Data rows are addressed by
// 1-based position, where position 1 is the first row after the header.
// Every call is an independent round trip with no transaction wrapping:
// a read-modify-write sequence can observe lost updates if the table
// changes in between.
type Backend interface {
	// ReadAll returns every data row of the table in storage order,
	// keyed by header name. A table with no rows beyond the header
	// (or no header at all) yields an empty slice.
	ReadAll(ctx context.Context, table string) ([]Row, error)

	// Append writes a new row. If the table is empty a header row is
	// first written from the keys of row. Values are serialized
	// positionally by the current header order; headers absent from
	// row become empty strings, keys absent from the header are
	// silently dropped.
	Append(ctx context.Context, table string, row Row) error

	// Update overwrites the data row at the given 1-based position
	// using the same header-driven column mapping as Append. The
	// header row is never addressable.
	Update(ctx context.Context, table string, pos int, row Row) error

	// Delete removes the data row at the given 1-based position.
	// Subsequent rows shift up by one.
	Delete(ctx context.Context, table string, pos int) error

	// Find scans the table for the first row whose column value
	// matches value case-insensitively and returns its 1-based
	// position, or PositionNotFound when absent. A missing column or
	// empty table is not an error.
	Find(ctx context.Context, table, column, value string) (int, error)

	// EnsureHeader creates the table if needed and writes the given
	// header row when the table has none yet. An existing header is
	// left untouched, whatever its columns.
	EnsureHeader(ctx context.Context, table string, header []string) error
}

// RowStore wraps a Backend with a stable API and operation metrics.
type RowStore struct {
	backend Backend
}

// New constructs a RowStore over the provided backend.
func New(backend Backend) *RowStore {
	return &RowStore{backend: backend}
}

// ReadAll returns every data row of the table.
func (s *RowStore) ReadAll(ctx context.Context, table string) ([]Row, error) {
	defer metrics.TrackRowStoreOp(table, "read_all")(time.Now())
	return s.backend.ReadAll(ctx, table)
}

// Append writes a new row to the table.
func (s *RowStore) Append(ctx context.Context, table string, row Row) error {
	defer metrics.TrackRowStoreOp(table, "append")(time.Now())
	return s.backend.Append(ctx, table, row)
}

// Update overwrites the row at the given 1-based position.
func (s *RowStore) Update(ctx context.Context, table string, pos int, row Row) error {
	defer metrics.TrackRowStoreOp(table, "update")(time.Now())
	return s.backend.Update(ctx, table, pos, row)
}

// Delete removes the row at the given 1-based position.
func (s *RowStore) Delete(ctx context.Context, table string, pos int) error {
	defer metrics.TrackRowStoreOp(table, "delete")(time.Now())
	return s.backend.Delete(ctx, table, pos)
}

// Find returns the 1-based position of the first row matching the
// column value, or PositionNotFound.
func (s *RowStore) Find(ctx context.Context, table, column, value string) (int, error) {
	defer metrics.TrackRowStoreOp(table, "find")(time.Now())
	return s.backend.Find(ctx, table, column, value)
}

// EnsureHeader creates the table with the given header when it is empty.
func (s *RowStore) EnsureHeader(ctx context.Context, table string, header []string) error {
	defer metrics.TrackRowStoreOp(table, "ensure_header")(time.Now())
	return s.backend.EnsureHeader(ctx, table, header)
}
