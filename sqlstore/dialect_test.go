package sqlstore_test

import (
	"fmt"
	"testing"

	"github.com/ilkerhalil/kvlite/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const table = "kvl_cache_entries"

func allDialects() map[string]sqlstore.Dialect {
	return map[string]sqlstore.Dialect{
		"sqlite":   sqlstore.SQLite(),
		"mysql":    sqlstore.MySQL(),
		"postgres": sqlstore.PostgreSQL(),
		"mssql":    sqlstore.MSSQL(),
		"oracle":   sqlstore.Oracle(),
	}
}

func TestCreateTableIncludesAllParentColumns(t *testing.T) {
	for name, d := range allDialects() {
		t.Run(name, func(t *testing.T) {
			sql := d.CreateTableSQL(table)
			assert.Contains(t, sql, "parent_hash_0")
			assert.Contains(t, sql, fmt.Sprintf("parent_hash_%d", sqlstore.MaxParents-1))
			assert.Contains(t, sql, "parent_key_0")
		})
	}
}

func TestUpsertSQLColumnsCoverCoreFields(t *testing.T) {
	for name, d := range allDialects() {
		t.Run(name, func(t *testing.T) {
			sql, cols := d.UpsertSQL(table)
			require.NotEmpty(t, sql)
			require.NotEmpty(t, cols)
			assertContainsAll(t, cols, []string{"hash", "partition", "key", "value"})
		})
	}
}

func TestMSSQLUpsertIsTwoStatementBatch(t *testing.T) {
	d := sqlstore.MSSQL()
	sql, cols := d.UpsertSQL(table)
	assert.Contains(t, sql, "UPDATE")
	assert.Contains(t, sql, "IF @@ROWCOUNT = 0")
	assert.Contains(t, sql, "INSERT INTO")
	// The bind order repeats "hash" (once in the UPDATE WHERE, once more
	// in the INSERT column list) — callers must walk this slice, not
	// dedupe it.
	count := 0
	for _, c := range cols {
		if c == "hash" {
			count++
		}
	}
	assert.GreaterOrEqual(t, count, 2)
}

func TestOracleHasNoRegisteredDriver(t *testing.T) {
	d := sqlstore.Oracle()
	assert.Empty(t, d.DriverName())
	sql, _ := d.UpsertSQL(table)
	assert.Contains(t, sql, "MERGE INTO")
}

func TestSQLiteUpsertUsesOnConflict(t *testing.T) {
	sql, _ := sqlstore.SQLite().UpsertSQL(table)
	assert.Contains(t, sql, "ON CONFLICT")
}

func TestPostgresUpsertUsesOnConflict(t *testing.T) {
	sql, _ := sqlstore.PostgreSQL().UpsertSQL(table)
	assert.Contains(t, sql, "ON CONFLICT")
	assert.Contains(t, sql, "$1")
}

func TestMySQLUpsertUsesReplace(t *testing.T) {
	sql, _ := sqlstore.MySQL().UpsertSQL(table)
	assert.Contains(t, sql, "REPLACE INTO")
}

func TestSelectHashByParentSQLVariesByIndex(t *testing.T) {
	d := sqlstore.SQLite()
	sql0 := d.SelectHashByParentSQL(table, 0)
	sql1 := d.SelectHashByParentSQL(table, 1)
	assert.Contains(t, sql0, "parent_hash_0")
	assert.Contains(t, sql1, "parent_hash_1")
	assert.NotEqual(t, sql0, sql1)
}

func assertContainsAll(t *testing.T, haystack []string, needles []string) {
	t.Helper()
	set := make(map[string]bool, len(haystack))
	for _, h := range haystack {
		set[h] = true
	}
	for _, n := range needles {
		assert.True(t, set[n], "expected column %q in %v", n, haystack)
	}
}
