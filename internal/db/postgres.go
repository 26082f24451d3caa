// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pdiddy/sqlmind/pkg/types"
)

// Postgres adapts a PostgreSQL database over a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects a pool using a postgres:// DSN.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Dialect() string { return "postgresql" }

func (p *Postgres) Ping(ctx context.Context) error {
	if p.pool == nil {
		return fmt.Errorf("postgres connection is not established")
	}
	return p.pool.Ping(ctx)
}

func (p *Postgres) ExecuteSQL(ctx context.Context, query string) (*types.ResultSet, error) {
	if !isReadQuery(query) {
		tag, err := p.pool.Exec(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("executing statement: %w", err)
		}
		return &types.ResultSet{RowsAffected: tag.RowsAffected()}, nil
	}

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	rs := &types.ResultSet{Columns: make([]string, len(fds))}
	for i, fd := range fds {
		rs.Columns[i] = string(fd.Name)
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("reading row values: %w", err)
		}
		for i, v := range values {
			values[i] = normalizeValue(v)
		}
		rs.Rows = append(rs.Rows, values)
	}
	return rs, rows.Err()
}

func (p *Postgres) TableNames(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
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

// DDL synthesizes a CREATE TABLE statement from information_schema, since
// PostgreSQL keeps no stored CREATE TABLE text.
func (p *Postgres) DDL(ctx context.Context, table string) (string, error) {
	pks, err := p.primaryKeyColumns(ctx, table)
	if err != nil {
		return "", err
	}

	rows, err := p.pool.Query(ctx,
		`SELECT column_name, data_type, is_nullable = 'YES', COALESCE(column_default, '')
		 FROM information_schema.columns
		 WHERE table_schema = 'public' AND table_name = $1
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
		c.PrimaryKey = pks[c.Name]
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

// primaryKeyColumns returns the set of primary-key column names for table.
func (p *Postgres) primaryKeyColumns(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT kc.column_name
		 FROM information_schema.table_constraints tc
		 JOIN information_schema.key_column_usage kc ON tc.constraint_name = kc.constraint_name
		 WHERE tc.table_schema = 'public' AND tc.table_name = $1
		   AND tc.constraint_type = 'PRIMARY KEY'
		 ORDER BY kc.ordinal_position`, table)
	if err != nil {
		return nil, fmt.Errorf("reading primary keys for %s: %w", table, err)
	}
	defer rows.Close()

	pks := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		pks[name] = true
	}
	return pks, rows.Err()
}

func (p *Postgres) AllDDLs(ctx context.Context) ([]types.TableDDL, error) {
	return collectDDLs(ctx, p)
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
