// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chart renders query results as terminal charts.
package chart

import (
	"fmt"
	"math"

	"github.com/pterm/pterm"

	"github.com/pdiddy/sqlmind/pkg/types"
)

// RenderBar draws a bar chart from a result set: the first column labels
// the bars and the first numeric column supplies the values. Results with
// fewer than two columns cannot be charted.
func RenderBar(rs *types.ResultSet) (string, error) {
	if rs == nil || rs.Empty() {
		return "", fmt.Errorf("no rows to chart")
	}
	if len(rs.Columns) < 2 {
		return "", fmt.Errorf("cannot chart a result with fewer than two columns")
	}

	// A NULL in one row must not hide a column that is numeric elsewhere.
	valueCol := -1
	for col := 1; col < len(rs.Columns) && valueCol < 0; col++ {
		for _, row := range rs.Rows {
			if col >= len(row) {
				continue
			}
			if _, ok := numeric(row[col]); ok {
				valueCol = col
				break
			}
		}
	}
	if valueCol < 0 {
		return "", fmt.Errorf("no numeric column to chart")
	}

	bars := make([]pterm.Bar, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		value, ok := numeric(row[valueCol])
		if !ok {
			continue
		}
		bars = append(bars, pterm.Bar{
			Label: fmt.Sprintf("%v", row[0]),
			Value: int(math.Round(value)),
		})
	}
	if len(bars) == 0 {
		return "", fmt.Errorf("no numeric values to chart")
	}

	rendered, err := pterm.DefaultBarChart.
		WithHorizontal().
		WithShowValue().
		WithBars(bars).
		Srender()
	if err != nil {
		return "", fmt.Errorf("rendering chart: %w", err)
	}
	return rendered, nil
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}
