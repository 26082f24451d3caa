// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/pdiddy/sqlmind/pkg/types"
)

// DuckDB adapts a local DuckDB database file.
type DuckDB struct {
	db *sql.DB
}

// OpenDuckDB opens the database file at dsn, or an in-memory database
// when dsn is ":memory:".
func OpenDuckDB(ctx context.Context, dsn string) (*DuckDB, error) {
	if dsn == ":memory:" {
		dsn = ""
	}
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening duckdb database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to duckdb database: %w", err)
	}
	return &DuckDB{db: db}, nil
}

func (d *DuckDB) Dialect() string { return "duckdb" }

func (d *DuckDB) Ping(ctx context.Context) error {
	if d.db == nil {
		return fmt.Errorf("duckdb connection is not established")
	}
	return d.db.PingContext(ctx)
}

func (d *DuckDB) ExecuteSQL(ctx context.Context, query string) (*types.ResultSet, error) {
	return executeSQL(ctx, d.db, query)
}

func (d *DuckDB) TableNames(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = 'main' AND table_type = 'BASE TABLE'
		 ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// DDL synthesizes a CREATE TABLE statement from information_schema.
// DuckDB exposes PostgreSQL-style catalog views.
func (d *DuckDB) DDL(ctx context.Context, table string) (string, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT column_name, data_type, is_nullable = 'YES', COALESCE(column_default, '')
		 FROM information_schema.columns
		 WHERE table_schema = 'main' AND table_name = ?
		 ORDER BY ordinal_position`, table)
	if err != nil {
		return "", fmt.Errorf("introspecting %s: %w", table, err)
	}
	defer rows.Close()

	var cols []column
	for rows.Next() {
		var c column
		if err := rows.Scan(&c.Name, &c.DataType, &c.Nullable, &c.Default); err != nil {
			return "", fmt.Errorf("scanning column: %w", err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	if len(cols) == 0 {
		return "", fmt.Errorf("table %s not found", table)
	}
	return synthesizeDDL(table, cols), nil
}

func (d *DuckDB) AllDDLs(ctx context.Context) ([]types.TableDDL, error) {
	return collectDDLs(ctx, d)
}

func (d *DuckDB) Close() error {
	return d.db.Close()
}
