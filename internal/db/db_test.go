// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package db

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sqlmind/pkg/types"
)

func TestIsReadQuery(t *testing.T) {
	assert.True(t, isReadQuery("SELECT * FROM t"))
	assert.True(t, isReadQuery("  with cte as (select 1) select * from cte"))
	assert.True(t, isReadQuery("PRAGMA table_info(users)"))
	assert.True(t, isReadQuery("EXPLAIN SELECT 1"))
	assert.False(t, isReadQuery("INSERT INTO t VALUES (1)"))
	assert.False(t, isReadQuery("UPDATE t SET x = 1"))
	assert.False(t, isReadQuery("CREATE TABLE t (id INTEGER)"))
}

func TestNormalizeValue(t *testing.T) {
	uuid := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10}
	assert.Equal(t, "01020304-0506-0708-090a-0b0c0d0e0f10", normalizeValue(uuid))

	var arr [16]byte
	copy(arr[:], uuid)
	assert.Equal(t, "01020304-0506-0708-090a-0b0c0d0e0f10", normalizeValue(arr))

	assert.Equal(t, "hello", normalizeValue([]byte("hello")))
	assert.Equal(t, int64(7), normalizeValue(int64(7)))
	assert.Nil(t, normalizeValue(nil))
}

func TestSynthesizeDDL(t *testing.T) {
	ddl := synthesizeDDL("users", []column{
		{Name: "id", DataType: "integer", Nullable: false, PrimaryKey: true},
		{Name: "name", DataType: "text", Nullable: true},
		{Name: "created_at", DataType: "timestamp", Nullable: false, Default: "now()"},
	})
	assert.Contains(t, ddl, "CREATE TABLE users (")
	assert.Contains(t, ddl, "id integer NOT NULL")
	assert.Contains(t, ddl, "name text")
	assert.Contains(t, ddl, "created_at timestamp NOT NULL DEFAULT now()")
	assert.Contains(t, ddl, "PRIMARY KEY (id)")
}

func TestExecuteSQLReadQuery(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectQuery("SELECT id, name FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), []byte("alice")).
			AddRow(int64(2), []byte("bob")))

	rs, err := executeSQL(context.Background(), mockDB, "SELECT id, name FROM users")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, rs.Columns)
	require.Len(t, rs.Rows, 2)
	assert.Equal(t, "alice", rs.Rows[0][1])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteSQLWriteStatement(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectExec("DELETE FROM users").
		WillReturnResult(sqlmock.NewResult(0, 3))

	rs, err := executeSQL(context.Background(), mockDB, "DELETE FROM users WHERE active = 0")
	require.NoError(t, err)
	assert.Empty(t, rs.Columns)
	assert.Equal(t, int64(3), rs.RowsAffected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenRejectsMissingDSN(t *testing.T) {
	_, err := Open(context.Background(), types.DatabaseConfig{Engine: types.EngineSQLite})
	assert.Error(t, err)
}

func TestOpenRejectsUnknownEngine(t *testing.T) {
	_, err := Open(context.Background(), types.DatabaseConfig{Engine: "oracle", DSN: "x"})
	assert.Error(t, err)
}
