// Package sqlrun executes gate-passed read-only SQL against the relational
// store and shapes the result for oracle-facing context payloads.
package sqlrun

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rotisserie/eris"

	"github.com/gridiron-labs/analyst-cli/internal/db"
	"github.com/gridiron-labs/analyst-cli/internal/model"
)

// Execute runs a single read-only statement and returns its columns and rows.
// Zero rows yields an Observation with empty rows, not an error. The caller is
// responsible for having passed the statement through the safety gate first.
func Execute(ctx context.Context, pool db.Pool, query string) (*model.Observation, error) {
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "sqlrun: execute query")
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = string(f.Name)
	}

	var out [][]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, eris.Wrap(err, "sqlrun: scan row")
		}
		row := make([]any, len(values))
		for i, v := range values {
			row[i] = coerce(v)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlrun: iterate rows")
	}

	return &model.Observation{
		RowCount: len(out),
		Columns:  columns,
		Rows:     out,
	}, nil
}

// coerce converts extended-precision numeric values to plain floats,
// recursing through nested slices and maps so that every value placed in an
// oracle context payload serializes as ordinary JSON.
func coerce(v any) any {
	switch t := v.(type) {
	case pgtype.Numeric:
		return numericToFloat(t)
	case *pgtype.Numeric:
		if t == nil {
			return nil
		}
		return numericToFloat(*t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = coerce(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = coerce(e)
		}
		return out
	default:
		return v
	}
}

func numericToFloat(n pgtype.Numeric) any {
	if !n.Valid {
		return nil
	}
	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return nil
	}
	return f.Float64
}
