package rowstore

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MemoryBackend keeps tables in process memory with the same contract
// as the sheets backend. It backs dev-mode runs that have no
// credentials, and every test.
type MemoryBackend struct {
	mu     sync.Mutex
	tables map[string]*memoryTable
}

type memoryTable struct {
	header []string
	rows   [][]string
}

// NewMemoryBackend constructs an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{tables: make(map[string]*memoryTable)}
}

// ReadAll returns every data row of the table keyed by header name.
func (b *MemoryBackend) ReadAll(ctx context.Context, table string) ([]Row, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.table(table)
	rows := make([]Row, 0, len(t.rows))
	for _, raw := range t.rows {
		row := make(Row, len(t.header))
		for i, name := range t.header {
			if i < len(raw) {
				row[name] = raw[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Append writes a new row, bootstrapping the header from the row keys
// when the table is empty.
func (b *MemoryBackend) Append(ctx context.Context, table string, row Row) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.table(table)
	if len(t.header) == 0 {
		t.header = sortedKeys(row)
	}
	t.rows = append(t.rows, projectRow(t.header, row))
	return nil
}

// Update overwrites the data row at the given 1-based position.
func (b *MemoryBackend) Update(ctx context.Context, table string, pos int, row Row) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.table(table)
	if pos < 1 || pos > len(t.rows) {
		return fmt.Errorf("invalid row position %d for %s", pos, table)
	}
	t.rows[pos-1] = projectRow(t.header, row)
	return nil
}

// Delete removes the data row at the given 1-based position.
func (b *MemoryBackend) Delete(ctx context.Context, table string, pos int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.table(table)
	if pos < 1 || pos > len(t.rows) {
		return fmt.Errorf("invalid row position %d for %s", pos, table)
	}
	t.rows = append(t.rows[:pos-1], t.rows[pos:]...)
	return nil
}

// Find scans the table for the first case-insensitive column match.
func (b *MemoryBackend) Find(ctx context.Context, table, column, value string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.table(table)
	col := -1
	for i, name := range t.header {
		if name == column {
			col = i
			break
		}
	}
	if col == -1 {
		return PositionNotFound, nil
	}
	for i, raw := range t.rows {
		cell := ""
		if col < len(raw) {
			cell = raw[col]
		}
		if strings.EqualFold(cell, value) {
			return i + 1, nil
		}
	}
	return PositionNotFound, nil
}

// EnsureHeader creates the table with the given header when it is empty.
func (b *MemoryBackend) EnsureHeader(ctx context.Context, table string, header []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.table(table)
	if len(t.header) == 0 {
		t.header = append([]string(nil), header...)
	}
	return nil
}

// table returns the named table, creating it empty when absent. Callers
// must hold mu.
func (b *MemoryBackend) table(name string) *memoryTable {
	t, ok := b.tables[name]
	if !ok {
		t = &memoryTable{}
		b.tables[name] = t
	}
	return t
}
