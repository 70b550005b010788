package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterClauses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filter   *Filter
		expWhere string
		expLimit string
		expArgs  []any
	}{
		{name: "ok/nil", expWhere: "WHERE 1=1"},
		{
			name:     "ok/simple",
			filter:   NewFilter("username = ?", []any{"alice"}),
			expWhere: "WHERE username = ?",
			expArgs:  []any{"alice"},
		},
		{
			name: "ok/and_limit",
			filter: NewFilter("username <> ?", []any{"alice"}).WithLimit(5).
				And(NewFilter("name = ? OR name = ?", []any{"Bob", "Carol"})),
			expWhere: "WHERE (username <> ?) AND (name = ? OR name = ?)",
			expLimit: "LIMIT 5",
			expArgs:  []any{"alice", "Bob", "Carol"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			where, limit, args := tt.filter.Clauses()
			assert.Equal(t, tt.expWhere, where)
			assert.Equal(t, tt.expLimit, limit)
			assert.Equal(t, tt.expArgs, args)
		})
	}
}
