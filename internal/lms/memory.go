package lms

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryRepository is an in-memory Repository. It backs dry-run transforms
// from a YAML fixture and the test suites.
type MemoryRepository struct {
	mu     sync.RWMutex
	tables map[string]map[int64]Record
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		tables: make(map[string]map[int64]Record),
	}
}

// Insert adds a record to a table. The record must carry an "id" column.
// Inserting an existing id replaces the stored record.
func (m *MemoryRepository) Insert(table string, rec Record) error {
	id := rec.ID()
	if id <= 0 {
		return fmt.Errorf("lms: insert into %q: record has no positive id", table)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rows, ok := m.tables[table]
	if !ok {
		rows = make(map[int64]Record)
		m.tables[table] = rows
	}
	rows[id] = cloneRecord(rec)
	return nil
}

func (m *MemoryRepository) RecordByID(ctx context.Context, table string, id int64) (Record, error) {
	if id <= 0 {
		return nil, fmt.Errorf("lms: %s id %d: %w", table, id, ErrNotFound)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.tables[table][id]
	if !ok {
		return nil, fmt.Errorf("lms: %s id %d: %w", table, id, ErrNotFound)
	}
	return cloneRecord(rec), nil
}

func (m *MemoryRepository) Records(ctx context.Context, table string, q Query) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Record
	for _, rec := range m.tables[table] {
		if matches(rec, q.Where) {
			out = append(out, cloneRecord(rec))
		}
	}

	if q.OrderBy != "" {
		sort.Slice(out, func(i, j int) bool {
			if q.Desc {
				return compareColumn(out[j], out[i], q.OrderBy)
			}
			return compareColumn(out[i], out[j], q.OrderBy)
		})
	} else {
		// Deterministic order for map iteration.
		sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func matches(rec Record, where map[string]interface{}) bool {
	for col, want := range where {
		probe := Record{"v": want}
		if rec.Str(col) != probe.Str("v") {
			return false
		}
	}
	return true
}

// compareColumn orders numerically when both values parse as integers,
// falling back to string order.
func compareColumn(a, b Record, col string) bool {
	av, bv := a.Int(col), b.Int(col)
	if av != bv {
		return av < bv
	}
	return a.Str(col) < b.Str(col)
}

func cloneRecord(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
