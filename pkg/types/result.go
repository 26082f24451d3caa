// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// ResultSet holds the normalized rows returned by a SQL query.
type ResultSet struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`

	// RowsAffected is set for write statements instead of Columns/Rows.
	RowsAffected int64 `json:"rows_affected,omitempty"`
}

// Empty reports whether the result set carries no rows.
func (r *ResultSet) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// Render formats the result set as aligned text for prompt context and
// plain terminal output. Values are formatted with %v; nil renders as NULL.
func (r *ResultSet) Render() string {
	if r == nil || len(r.Columns) == 0 {
		return ""
	}

	widths := make([]int, len(r.Columns))
	for i, c := range r.Columns {
		widths[i] = len(c)
	}
	cells := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		cells[i] = make([]string, len(r.Columns))
		for j := range r.Columns {
			v := "NULL"
			if j < len(row) && row[j] != nil {
				v = fmt.Sprintf("%v", row[j])
			}
			cells[i][j] = v
			if len(v) > widths[j] {
				widths[j] = len(v)
			}
		}
	}

	var b strings.Builder
	for i, c := range r.Columns {
		if i > 0 {
			b.WriteString("  ")
		}
		fmt.Fprintf(&b, "%-*s", widths[i], c)
	}
	b.WriteByte('\n')
	for _, row := range cells {
		for i, v := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%-*s", widths[i], v)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// AskResult holds the outcome of answering a question against the database.
// Fields are filled as far as the pipeline got: SQL is present once
// generation succeeded, Result and Response once execution succeeded, and
// Chart only when visualization was requested and possible.
type AskResult struct {
	// SQL is the generated query.
	SQL string `json:"sql"`

	// Result is the execution output.
	Result *ResultSet `json:"result,omitempty"`

	// Response is the model's natural-language summary of the result.
	Response string `json:"response,omitempty"`

	// Chart is a rendered terminal chart of the result.
	Chart string `json:"chart,omitempty"`

	// Err records a post-generation failure (invalid SQL, execution or
	// summarization error). The earlier fields remain valid.
	Err error `json:"-"`
}
