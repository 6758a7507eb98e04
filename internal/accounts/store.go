package accounts

import (
	"context"
	"errors"
)

// Record is a row as returned by the account store. Its shape is owned by the store.
type Record map[string]any

var (
	ErrNotUnique     = errors.New("accounts: more than one row matched")
	ErrInvalidQuery  = errors.New("accounts: invalid query")
	ErrStoreNotReady = errors.New("accounts: store not configured")
)

// Filter is a single column = value equality predicate.
type Filter struct {
	Column string
	Value  string
}

// Query is a read against one table. Filters are ANDed.
// An empty Columns list selects every column.
type Query struct {
	Table   string
	Columns []string
	Filters []Filter
	Limit   int
}

// Eq returns a copy of q with an extra equality filter.
func (q Query) Eq(column, value string) Query {
	out := q
	out.Filters = append(append([]Filter(nil), q.Filters...), Filter{Column: column, Value: value})
	return out
}

func (q Query) validate() error {
	if q.Table == "" {
		return ErrInvalidQuery
	}
	if q.Limit < 0 {
		return ErrInvalidQuery
	}
	for _, f := range q.Filters {
		if f.Column == "" {
			return ErrInvalidQuery
		}
	}
	for _, c := range q.Columns {
		if c == "" {
			return ErrInvalidQuery
		}
	}
	return nil
}

// Store is a privileged account store client. Implementations authenticate with the
// service role key, so row-level security is NOT applied to anything issued here.
// Callers must scope every Query to the caller's own account id.
type Store interface {
	Select(ctx context.Context, q Query) ([]Record, error)
}
