package sqlstore

import (
	"fmt"
	"strings"
)

func oracleQuote(name string) string { return `"` + strings.ToUpper(name) + `"` }

func oracleNumbered(n int) string { return fmt.Sprintf(":%d", n) }

// Oracle returns the Dialect for Oracle Database. Upsert idiom: MERGE.
// An earlier ad-hoc attempt at this template used a ";" before
// "ON DUPLICATE KEY", which is not valid Oracle syntax and isn't reproduced
// here; MERGE is used instead.
//
// No Oracle driver is registered anywhere in this module, so DriverName
// returns "" and this dialect is exercised only through its SQL template
// strings, not against a live connection.
func Oracle() Dialect {
	d := &baseDialect{
		name:        "oracle",
		driver:      "",
		quote:       oracleQuote,
		placeholder: oracleNumbered,
		blobType:    "BLOB",
		idType:      "NUMBER(19) GENERATED ALWAYS AS IDENTITY PRIMARY KEY",
	}
	d.upsert = func(d *baseDialect, table string) (string, []string) {
		cols := allColumns()
		usingCols := make([]string, len(cols))
		for i, c := range cols {
			usingCols[i] = fmt.Sprintf("%s AS %s", d.ph(i+1), d.q(c))
		}

		updateSets := make([]string, 0, len(cols)-1)
		insertCols := make([]string, 0, len(cols))
		insertVals := make([]string, 0, len(cols))
		for _, c := range cols {
			insertCols = append(insertCols, d.q(c))
			insertVals = append(insertVals, fmt.Sprintf("src.%s", d.q(c)))
			if c != "hash" {
				updateSets = append(updateSets, fmt.Sprintf("tgt.%s = src.%s", d.q(c), d.q(c)))
			}
		}

		q := fmt.Sprintf(
			"MERGE INTO %s tgt\nUSING (SELECT %s FROM dual) src\nON (tgt.%s = src.%s)\nWHEN MATCHED THEN UPDATE SET %s\nWHEN NOT MATCHED THEN INSERT (%s) VALUES (%s)",
			table, strings.Join(usingCols, ", "), d.q("hash"), d.q("hash"),
			strings.Join(updateSets, ", "),
			strings.Join(insertCols, ", "), strings.Join(insertVals, ", "))
		return q, cols
	}
	return d
}
