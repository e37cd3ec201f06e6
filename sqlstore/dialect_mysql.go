package sqlstore

import (
	"fmt"
	"strings"
)

func mysqlQuote(name string) string { return "`" + name + "`" }

// MySQL returns the Dialect for MySQL/MariaDB, registered via the
// go-sql-driver/mysql driver. Upsert idiom: "REPLACE INTO".
func MySQL() Dialect {
	d := &baseDialect{
		name:        "mysql",
		driver:      "mysql",
		quote:       mysqlQuote,
		placeholder: questionMark,
		blobType:    "MEDIUMBLOB",
		idType:      "BIGINT AUTO_INCREMENT PRIMARY KEY",
	}
	d.upsert = func(d *baseDialect, table string) (string, []string) {
		cols := allColumns()
		placeholders := make([]string, len(cols))
		quoted := make([]string, len(cols))
		for i, c := range cols {
			placeholders[i] = d.ph(i + 1)
			quoted[i] = d.q(c)
		}
		q := fmt.Sprintf("REPLACE INTO %s (%s) VALUES (%s)",
			table, strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
		return q, cols
	}
	return d
}
