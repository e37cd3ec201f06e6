// Package sqlstore is the SQL connection factory: it opens pooled *sql.DB
// handles and exposes per-dialect SQL templates for upsert, delete, peek,
// contains, count, size, and update-expiry. Dialects differ only in SQL
// fragments, identifier quoting, and the upsert idiom; the shared column
// layout and template shape live here once.
package sqlstore

import (
	"fmt"
	"strings"
)

// Dialect exposes the SQL fragments a single backend needs. Concrete
// dialects (SQLite, MySQL, PostgreSQL, SQL Server, Oracle) are thin: they
// configure a baseDialect with their quoting/placeholder/blob-type/upsert
// idiom and otherwise share every template below.
type Dialect interface {
	// Name identifies the dialect for diagnostics/logging.
	Name() string
	// DriverName is the database/sql driver name registered for this
	// dialect (empty if none is wired, e.g. Oracle).
	DriverName() string

	CreateTableSQL(table string) string
	UpsertSQL(table string) (query string, columns []string)
	SelectValueSQL(table string) string
	ContainsSQL(table string) string
	CountSQL(table string, partitionFilter, considerExpiry bool) string
	UpdateExpirySQL(table string) string
	DeleteByHashSQL(table string) string
	SelectHashByParentSQL(table string, parentIdx int) string
	ClearSQL(table string, partitionFilter, considerExpiry bool) string
	SelectItemsSQL(table string, partitionFilter bool) string
	SizeSQL(table string) string
	SelectExpiredHashesSQL(table string) string
	SelectOldestHashesSQL(table string) string
}

// placeholderFunc returns the bind placeholder for the n-th (1-based)
// parameter in a statement.
type placeholderFunc func(n int) string

func questionMark(int) string { return "?" }

func dollarNumbered(n int) string { return fmt.Sprintf("$%d", n) }

// baseDialect implements every Dialect method generically over a quoting
// function, a placeholder function, a blob column type, and an upsert
// builder; concrete dialects only supply those four plus a name, a driver
// and an id column type.
type baseDialect struct {
	name        string
	driver      string
	quote       func(string) string
	placeholder placeholderFunc
	blobType    string
	idType      string // e.g. "INTEGER PRIMARY KEY AUTOINCREMENT"
	upsert      func(d *baseDialect, table string) (string, []string)
}

func (d *baseDialect) Name() string       { return d.name }
func (d *baseDialect) DriverName() string { return d.driver }

func (d *baseDialect) q(name string) string { return d.quote(name) }

func (d *baseDialect) ph(n int) string { return d.placeholder(n) }

func (d *baseDialect) CreateTableSQL(table string) string {
	cols := []string{
		fmt.Sprintf("%s %s", d.q("id"), d.idType),
		fmt.Sprintf("%s BIGINT NOT NULL", d.q("hash")),
		fmt.Sprintf("%s VARCHAR(2000) NOT NULL", d.q("partition")),
		fmt.Sprintf("%s VARCHAR(2000) NOT NULL", d.q("key")),
		fmt.Sprintf("%s BIGINT NOT NULL", d.q("utc_creation")),
		fmt.Sprintf("%s BIGINT NOT NULL", d.q("utc_expiry")),
		fmt.Sprintf("%s BIGINT NOT NULL", d.q("interval")),
		fmt.Sprintf("%s %s", d.q("value"), d.blobType),
		fmt.Sprintf("%s BOOLEAN NOT NULL", d.q("compressed")),
	}
	for i := 0; i < MaxParents; i++ {
		cols = append(cols,
			fmt.Sprintf("%s BIGINT NULL", d.q(fmt.Sprintf("parent_hash_%d", i))),
			fmt.Sprintf("%s VARCHAR(2000) NULL", d.q(fmt.Sprintf("parent_key_%d", i))),
		)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n  %s,\n  UNIQUE (%s)\n)",
		table, strings.Join(cols, ",\n  "), d.q("hash"))
	return b.String()
}

func (d *baseDialect) UpsertSQL(table string) (string, []string) {
	return d.upsert(d, table)
}

func (d *baseDialect) SelectValueSQL(table string) string {
	return fmt.Sprintf("SELECT %s, %s, %s, %s FROM %s WHERE %s = %s",
		d.q("utc_expiry"), d.q("interval"), d.q("value"), d.q("compressed"),
		table, d.q("hash"), d.ph(1))
}

func (d *baseDialect) ContainsSQL(table string) string {
	return fmt.Sprintf("SELECT 1 FROM %s WHERE %s = %s AND %s >= %s",
		table, d.q("hash"), d.ph(1), d.q("utc_expiry"), d.ph(2))
}

func (d *baseDialect) CountSQL(table string, partitionFilter, considerExpiry bool) string {
	where := []string{}
	n := 1
	if partitionFilter {
		where = append(where, fmt.Sprintf("%s = %s", d.q("partition"), d.ph(n)))
		n++
	}
	if considerExpiry {
		where = append(where, fmt.Sprintf("%s >= %s", d.q("utc_expiry"), d.ph(n)))
		n++
	}
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	return q
}

func (d *baseDialect) UpdateExpirySQL(table string) string {
	return fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s = %s",
		table, d.q("utc_expiry"), d.ph(1), d.q("hash"), d.ph(2))
}

func (d *baseDialect) DeleteByHashSQL(table string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = %s", table, d.q("hash"), d.ph(1))
}

func (d *baseDialect) SelectHashByParentSQL(table string, parentIdx int) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		d.q("hash"), table, d.q(fmt.Sprintf("parent_hash_%d", parentIdx)), d.ph(1))
}

func (d *baseDialect) ClearSQL(table string, partitionFilter, considerExpiry bool) string {
	where := []string{}
	n := 1
	if partitionFilter {
		where = append(where, fmt.Sprintf("%s = %s", d.q("partition"), d.ph(n)))
		n++
	}
	if considerExpiry {
		where = append(where, fmt.Sprintf("%s < %s", d.q("utc_expiry"), d.ph(n)))
		n++
	}
	q := fmt.Sprintf("DELETE FROM %s", table)
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	return q
}

func (d *baseDialect) SelectItemsSQL(table string, partitionFilter bool) string {
	q := fmt.Sprintf("SELECT %s, %s, %s, %s, %s, %s FROM %s",
		d.q("partition"), d.q("key"), d.q("utc_expiry"), d.q("interval"),
		d.q("value"), d.q("compressed"), table)
	n := 1
	if partitionFilter {
		q += fmt.Sprintf(" WHERE %s = %s", d.q("partition"), d.ph(n))
		n++
	}
	q += fmt.Sprintf(" AND %s >= %s", d.q("utc_expiry"), d.ph(n))
	if !partitionFilter {
		// No partition filter means the WHERE above starts with "AND"; fix up.
		q = strings.Replace(q, " AND ", " WHERE ", 1)
	}
	return q
}

func (d *baseDialect) SizeSQL(table string) string {
	return fmt.Sprintf("SELECT COALESCE(SUM(LENGTH(%s)), 0) FROM %s", d.q("value"), table)
}

func (d *baseDialect) SelectExpiredHashesSQL(table string) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s < %s", d.q("hash"), table, d.q("utc_expiry"), d.ph(1))
}

func (d *baseDialect) SelectOldestHashesSQL(table string) string {
	return fmt.Sprintf("SELECT %s, LENGTH(%s) FROM %s ORDER BY %s ASC", d.q("hash"), d.q("value"), table, d.q("utc_expiry"))
}
