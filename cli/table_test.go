package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, renderTable([]string{"Username", "Name"}, nil, &buf))
	assert.Empty(t, buf.String())

	err := renderTable([]string{"Username", "Name"},
		[][]string{{"alice", "Alice"}, {"bob", "Bob"}}, &buf)
	require.NoError(t, err)

	out := strings.ToLower(buf.String())
	assert.Contains(t, out, "username")
	assert.Less(t, strings.Index(out, "username"), strings.Index(out, "alice"))
	assert.Less(t, strings.Index(out, "alice"), strings.Index(out, "bob"))
}
