// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultSetEmpty(t *testing.T) {
	var rs *ResultSet
	assert.True(t, rs.Empty())
	assert.True(t, (&ResultSet{Columns: []string{"a"}}).Empty())
	assert.False(t, (&ResultSet{Columns: []string{"a"}, Rows: [][]any{{1}}}).Empty())
}

func TestResultSetRender(t *testing.T) {
	rs := &ResultSet{
		Columns: []string{"name", "total"},
		Rows: [][]any{
			{"alice", int64(42)},
			{"bob", nil},
		},
	}

	out := rs.Render()
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "total")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "NULL")

	var empty *ResultSet
	assert.Equal(t, "", empty.Render())
}
