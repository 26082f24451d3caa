// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package db provides database adapters: connection handling, schema (DDL)
// introspection, and SQL execution normalized into a ResultSet.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pdiddy/sqlmind/pkg/types"
)

// Database is the adapter contract shared by all engines.
type Database interface {
	// Dialect returns the SQL dialect name used in prompts.
	Dialect() string

	// Ping verifies the connection is usable.
	Ping(ctx context.Context) error

	// ExecuteSQL runs a statement. Read queries fill Columns/Rows; write
	// statements fill RowsAffected.
	ExecuteSQL(ctx context.Context, query string) (*types.ResultSet, error)

	// TableNames lists user tables.
	TableNames(ctx context.Context) ([]string, error)

	// DDL returns the schema definition statement for one table.
	DDL(ctx context.Context, table string) (string, error)

	// AllDDLs returns definition statements for every user table.
	AllDDLs(ctx context.Context) ([]types.TableDDL, error)

	Close() error
}

// Open connects the adapter selected by cfg.Engine.
func Open(ctx context.Context, cfg types.DatabaseConfig) (Database, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}
	switch cfg.Engine {
	case types.EngineSQLite, "":
		return OpenSQLite(ctx, cfg.DSN)
	case types.EnginePostgres:
		return OpenPostgres(ctx, cfg.DSN)
	case types.EngineDuckDB:
		return OpenDuckDB(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database engine %q", cfg.Engine)
	}
}

// isReadQuery reports whether the statement produces rows.
func isReadQuery(query string) bool {
	head := strings.ToUpper(strings.TrimSpace(query))
	return strings.HasPrefix(head, "SELECT") || strings.HasPrefix(head, "WITH") ||
		strings.HasPrefix(head, "SHOW") || strings.HasPrefix(head, "PRAGMA") ||
		strings.HasPrefix(head, "EXPLAIN")
}

// executeSQL runs query on a database/sql handle, dispatching reads to
// Query and writes to Exec.
func executeSQL(ctx context.Context, db *sql.DB, query string) (*types.ResultSet, error) {
	if !isReadQuery(query) {
		res, err := db.ExecContext(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("executing statement: %w", err)
		}
		affected, _ := res.RowsAffected()
		return &types.ResultSet{RowsAffected: affected}, nil
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// scanRows drains a database/sql row set into a ResultSet.
func scanRows(rows *sql.Rows) (*types.ResultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	rs := &types.ResultSet{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		for i, v := range values {
			values[i] = normalizeValue(v)
		}
		rs.Rows = append(rs.Rows, values)
	}
	return rs, rows.Err()
}

// normalizeValue converts driver-specific values into JSON-friendly ones.
// 16-byte slices are rendered as UUID strings, other byte slices as text.
func normalizeValue(v any) any {
	switch b := v.(type) {
	case []byte:
		if len(b) == 16 {
			return formatUUID(b)
		}
		return string(b)
	case [16]byte:
		return formatUUID(b[:])
	default:
		return v
	}
}

func formatUUID(b []byte) string {
	return fmt.Sprintf("%02x%02x%02x%02x-%02x%02x-%02x%02x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		b[0], b[1], b[2], b[3], b[4], b[5], b[6], b[7],
		b[8], b[9], b[10], b[11], b[12], b[13], b[14], b[15])
}

// column holds the information_schema fields used to synthesize DDL for
// engines without a stored CREATE TABLE text.
type column struct {
	Name       string
	DataType   string
	Nullable   bool
	Default    string
	PrimaryKey bool
}

// synthesizeDDL builds a CREATE TABLE statement from introspected columns.
func synthesizeDDL(table string, cols []column) string {
	var defs []string
	var pks []string
	for _, c := range cols {
		def := fmt.Sprintf("    %s %s", c.Name, c.DataType)
		if !c.Nullable {
			def += " NOT NULL"
		}
		if c.Default != "" {
			def += " DEFAULT " + c.Default
		}
		defs = append(defs, def)
		if c.PrimaryKey {
			pks = append(pks, c.Name)
		}
	}
	if len(pks) > 0 {
		defs = append(defs, fmt.Sprintf("    PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}
	return fmt.Sprintf("CREATE TABLE %s (\n%s\n);", table, strings.Join(defs, ",\n"))
}

// collectDDLs implements AllDDLs on top of TableNames and DDL.
func collectDDLs(ctx context.Context, d Database) ([]types.TableDDL, error) {
	tables, err := d.TableNames(ctx)
	if err != nil {
		return nil, err
	}
	ddls := make([]types.TableDDL, 0, len(tables))
	for _, t := range tables {
		ddl, err := d.DDL(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("reading DDL for %s: %w", t, err)
		}
		ddls = append(ddls, types.TableDDL{Table: t, DDL: ddl})
	}
	return ddls, nil
}
