package sqlstore

import (
	"fmt"
	"strings"
)

func postgresQuote(name string) string { return `"` + name + `"` }

// PostgreSQL returns the Dialect for PostgreSQL, registered via the lib/pq
// driver. Upsert idiom: "INSERT ... ON CONFLICT DO UPDATE", using
// $N-numbered placeholders as lib/pq requires.
func PostgreSQL() Dialect {
	d := &baseDialect{
		name:        "postgres",
		driver:      "postgres",
		quote:       postgresQuote,
		placeholder: dollarNumbered,
		blobType:    "BYTEA",
		idType:      "BIGSERIAL PRIMARY KEY",
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
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", d.q(c), d.q(c)))
		}
		q := fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
			table, strings.Join(quoted, ", "), strings.Join(placeholders, ", "),
			d.q("hash"), strings.Join(sets, ", "))
		return q, cols
	}
	return d
}
