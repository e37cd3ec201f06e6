package sqlstore

import (
	"fmt"
	"strings"
)

func mssqlQuote(name string) string { return "[" + name + "]" }

// MSSQL returns the Dialect for SQL Server, registered via the
// denisenkom/go-mssqldb driver. Upsert idiom: "UPDATE ... IF @@ROWCOUNT=0
// INSERT", a two-statement batch executed as a single Exec call.
// UpsertSQL's returned columns slice repeats column names in
// the exact bind order the batch needs (SET columns, then the WHERE hash,
// then the full INSERT column list) — callers must build their args slice
// by walking that slice, not by assuming one value per distinct column.
func MSSQL() Dialect {
	d := &baseDialect{
		name:        "mssql",
		driver:      "sqlserver",
		quote:       mssqlQuote,
		placeholder: questionMark,
		blobType:    "VARBINARY(MAX)",
		idType:      "BIGINT IDENTITY(1,1) PRIMARY KEY",
	}
	d.upsert = func(d *baseDialect, table string) (string, []string) {
		cols := allColumns()
		nonHash := make([]string, 0, len(cols)-1)
		for _, c := range cols {
			if c != "hash" {
				nonHash = append(nonHash, c)
			}
		}

		sets := make([]string, len(nonHash))
		for i, c := range nonHash {
			sets[i] = fmt.Sprintf("%s = %s", d.q(c), d.ph(i+1))
		}

		insertCols := make([]string, len(cols))
		insertPH := make([]string, len(cols))
		for i, c := range cols {
			insertCols[i] = d.q(c)
			insertPH[i] = d.ph(i + 1)
		}

		q := fmt.Sprintf(
			"UPDATE %s SET %s WHERE %s = %s;\nIF @@ROWCOUNT = 0\nINSERT INTO %s (%s) VALUES (%s);",
			table, strings.Join(sets, ", "), d.q("hash"), d.ph(len(nonHash)+1),
			table, strings.Join(insertCols, ", "), strings.Join(insertPH, ", "))

		bindOrder := make([]string, 0, len(nonHash)+1+len(cols))
		bindOrder = append(bindOrder, nonHash...)
		bindOrder = append(bindOrder, "hash")
		bindOrder = append(bindOrder, cols...)
		return q, bindOrder
	}
	return d
}
