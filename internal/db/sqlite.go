// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/sqlmind/pkg/types"
)

// SQLite adapts a local SQLite database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens the database file at dsn. The file is created if it
// does not exist, matching the driver's default behavior.
func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to sqlite database: %w", err)
	}
	return &SQLite{db: db}, nil
}

// NewSQLiteFromDB wraps an existing handle. The caller keeps ownership.
func NewSQLiteFromDB(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) Dialect() string { return "sqlite3" }

func (s *SQLite) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("sqlite connection is not established")
	}
	return s.db.PingContext(ctx)
}

func (s *SQLite) ExecuteSQL(ctx context.Context, query string) (*types.ResultSet, error) {
	return executeSQL(ctx, s.db, query)
}

func (s *SQLite) TableNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
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

// DDL returns the stored CREATE TABLE text from sqlite_master.
func (s *SQLite) DDL(ctx context.Context, table string) (string, error) {
	var ddl string
	err := s.db.QueryRowContext(ctx,
		`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
	).Scan(&ddl)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("table %s not found", table)
	}
	if err != nil {
		return "", fmt.Errorf("reading DDL for %s: %w", table, err)
	}
	return ddl, nil
}

func (s *SQLite) AllDDLs(ctx context.Context) ([]types.TableDDL, error) {
	return collectDDLs(ctx, s)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
