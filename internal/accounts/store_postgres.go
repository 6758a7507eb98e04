package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// PostgresStore reads directly from Postgres using a privileged role.
//
// NOTE: Each row is returned through to_jsonb so the Record shape matches what the
// REST backend yields for the same table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// DB exposes the pool for custom SQL. The same account-scoping contract as Store applies.
func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Select(ctx context.Context, q Query) ([]Record, error) {
	if s.db == nil {
		return nil, ErrStoreNotReady
	}
	stmt, args, err := buildSelect(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var r Record
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// buildSelect renders q as parameterised SQL. Identifiers go through pgx sanitising;
// values are always bound, never interpolated.
func buildSelect(q Query) (string, []any, error) {
	if err := q.validate(); err != nil {
		return "", nil, err
	}

	cols := "*"
	if len(q.Columns) > 0 {
		parts := make([]string, 0, len(q.Columns))
		for _, c := range q.Columns {
			parts = append(parts, pgx.Identifier{c}.Sanitize())
		}
		cols = strings.Join(parts, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT to_jsonb(t) FROM (SELECT %s FROM %s", cols, tableIdentifier(q.Table))

	args := make([]any, 0, len(q.Filters))
	for i, f := range q.Filters {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		args = append(args, f.Value)
		fmt.Fprintf(&b, "%s = $%d", pgx.Identifier{f.Column}.Sanitize(), len(args))
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}
	b.WriteString(") t")
	return b.String(), args, nil
}

// tableIdentifier accepts "table" or "schema.table".
func tableIdentifier(table string) string {
	return pgx.Identifier(strings.Split(table, ".")).Sanitize()
}
