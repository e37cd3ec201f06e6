package sqlstore

import (
	"fmt"
	"strings"
)

func sqliteQuote(name string) string { return `"` + name + `"` }

// SQLite returns the Dialect for the file-backed SQLite backend, registered
// via the mattn/go-sqlite3 driver. Upsert idiom: "INSERT ... ON CONFLICT DO
// UPDATE".
func SQLite() Dialect {
	d := &baseDialect{
		name:        "sqlite",
		driver:      "sqlite3",
		quote:       sqliteQuote,
		placeholder: questionMark,
		blobType:    "BLOB",
		idType:      "INTEGER PRIMARY KEY AUTOINCREMENT",
	}
	d.upsert = func(d *baseDialect, table string) (string, []string) {
		cols := allColumns()
		placeholders := make([]string, len(cols))
		quoted := make([]string, len(cols))
		for i, c := range cols {
			placeholders[i] = d.ph(i + 1)
			quoted[i] = d.q(c)
		}
		sets := make([]string, 0, len(cols)-1)
		for _, c := range cols {
			if c == "hash" {
				continue
			}
			sets = append(sets, fmt.Sprintf("%s = excluded.%s", d.q(c), d.q(c)))
		}
		q := fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
			table, strings.Join(quoted, ", "), strings.Join(placeholders, ", "),
			d.q("hash"), strings.Join(sets, ", "))
		return q, cols
	}
	return d
}
