package accounts

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is a simple in-memory store useful for tests and local runs.
// It is not intended for production use.
type MemoryStore struct {
	mu     sync.Mutex
	tables map[string][]Record
	err    error
	calls  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: map[string][]Record{}}
}

// Insert appends a row to table.
func (s *MemoryStore) Insert(table string, r Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table] = append(s.tables[table], r)
}

// FailWith makes every subsequent Select return err. Pass nil to recover.
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Calls returns how many Select calls reached the store.
func (s *MemoryStore) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *MemoryStore) Select(ctx context.Context, q Query) ([]Record, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}

	var out []Record
	for _, row := range s.tables[q.Table] {
		if !matches(row, q.Filters) {
			continue
		}
		out = append(out, project(row, q.Columns))
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func matches(row Record, filters []Filter) bool {
	for _, f := range filters {
		v, ok := row[f.Column]
		if !ok || fmt.Sprint(v) != f.Value {
			return false
		}
	}
	return true
}

func project(row Record, columns []string) Record {
	out := make(Record, len(row))
	if len(columns) == 0 {
		for k, v := range row {
			out[k] = v
		}
		return out
	}
	for _, c := range columns {
		if v, ok := row[c]; ok {
			out[c] = v
		}
	}
	return out
}
