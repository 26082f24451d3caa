// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sqlmind/pkg/types"
)

func TestRenderBar(t *testing.T) {
	rs := &types.ResultSet{
		Columns: []string{"region", "total"},
		Rows: [][]any{
			{"north", int64(42)},
			{"south", int64(17)},
		},
	}

	out, err := RenderBar(rs)
	require.NoError(t, err)
	assert.Contains(t, out, "north")
	assert.Contains(t, out, "south")
}

func TestRenderBarPicksFirstNumericColumn(t *testing.T) {
	rs := &types.ResultSet{
		Columns: []string{"region", "manager", "total"},
		Rows: [][]any{
			{"north", "alice", float64(12.6)},
		},
	}

	out, err := RenderBar(rs)
	require.NoError(t, err)
	assert.Contains(t, out, "north")
	assert.Contains(t, out, "13") // 12.6 rounds up
}

func TestRenderBarSkipsLeadingNull(t *testing.T) {
	rs := &types.ResultSet{
		Columns: []string{"region", "total"},
		Rows: [][]any{
			{"north", nil},
			{"south", int64(17)},
			{"east", int64(8)},
		},
	}

	out, err := RenderBar(rs)
	require.NoError(t, err)
	assert.Contains(t, out, "south")
	assert.Contains(t, out, "east")
	assert.NotContains(t, out, "north")
}

func TestRenderBarRejectsSingleColumn(t *testing.T) {
	rs := &types.ResultSet{
		Columns: []string{"count"},
		Rows:    [][]any{{int64(5)}},
	}
	_, err := RenderBar(rs)
	assert.ErrorContains(t, err, "fewer than two columns")
}

func TestRenderBarRejectsEmptyResult(t *testing.T) {
	_, err := RenderBar(nil)
	assert.Error(t, err)

	_, err = RenderBar(&types.ResultSet{Columns: []string{"a", "b"}})
	assert.Error(t, err)
}

func TestRenderBarRejectsNonNumeric(t *testing.T) {
	rs := &types.ResultSet{
		Columns: []string{"a", "b"},
		Rows:    [][]any{{"x", "y"}},
	}
	_, err := RenderBar(rs)
	assert.ErrorContains(t, err, "no numeric column")
}
