package types

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"
)

// Querier exposes only methods for running SQL queries, and some helper functions.
type Querier interface {
	TimeNow() time.Time
	ExecContext(ctx context.Context, sql string, arguments ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Filter is used to dynamically modify queries.
type Filter struct {
	Where string
	Args  []any
	// Limit is the maximum amount of rows to return. 0 means no limit.
	Limit int
}

// NewFilter creates a new query filter.
func NewFilter(where string, args []any) *Filter {
	return &Filter{Where: where, Args: args}
}

// WithLimit returns a copy of f that matches at most n rows.
func (f *Filter) WithLimit(n int) *Filter {
	return &Filter{Where: f.Where, Args: f.Args, Limit: n}
}

// And joins f2 with f1 using an AND condition. The limit of f1 is kept.
func (f *Filter) And(f2 *Filter) *Filter {
	return &Filter{
		Where: fmt.Sprintf("(%s) AND (%s)", f.Where, f2.Where),
		Args:  slices.Concat(f.Args, f2.Args),
		Limit: f.Limit,
	}
}

// Clauses returns the WHERE and LIMIT clauses of the filter, and its query
// arguments. A nil filter matches all rows.
func (f *Filter) Clauses() (where, limit string, args []any) {
	if f == nil {
		return "WHERE 1=1", "", nil
	}
	if f.Limit > 0 {
		limit = fmt.Sprintf("LIMIT %d", f.Limit)
	}

	return "WHERE " + f.Where, limit, f.Args
}
