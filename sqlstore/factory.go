package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/denisenkom/go-mssqldb" // registers "sqlserver"
	_ "github.com/go-sql-driver/mysql"   // registers "mysql"
	_ "github.com/lib/pq"                // registers "postgres"
	_ "github.com/mattn/go-sqlite3"      // registers "sqlite3"
)

// Factory opens pooled *sql.DB connections for a Dialect and exposes the
// dialect's SQL templates, schema-qualified against the configured table
// name.
type Factory struct {
	dialect Dialect
	table   string
}

// New returns a Factory for dialect, with SQL templates qualified against
// table (typically settings.Settings.QualifiedTableName()).
func New(dialect Dialect, table string) *Factory {
	return &Factory{dialect: dialect, table: table}
}

// Dialect returns the configured Dialect.
func (f *Factory) Dialect() Dialect { return f.dialect }

// Table returns the configured table name.
func (f *Factory) Table() string { return f.table }

// Rebind updates the table name the factory's templates are qualified
// against. Called by the engine's settings.Listener when CacheSchemaName or
// CacheEntriesTableName changes.
func (f *Factory) Rebind(table string) { f.table = table }

// Open opens a connection pool for dsn using the configured dialect's
// registered driver. It returns a plain error if the driver name is unset
// (e.g. Oracle, for which no driver ships with this module).
func (f *Factory) Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if f.dialect.DriverName() == "" {
		return nil, fmt.Errorf("sqlstore: dialect %q has no registered driver", f.dialect.Name())
	}
	db, err := sql.Open(f.dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", f.dialect.Name(), err)
	}
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: ping %s: %w", f.dialect.Name(), err)
	}
	return db, nil
}

// EnsureSchema runs the dialect's CREATE TABLE IF NOT EXISTS template.
func (f *Factory) EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, f.dialect.CreateTableSQL(f.table))
	if err != nil {
		return fmt.Errorf("sqlstore: ensure schema: %w", err)
	}
	return nil
}

// Templates is a snapshot of the rendered SQL the engine binds arguments
// against, rendered by Render from the current table name; a snapshot
// already taken is not updated when Rebind changes the table name.
type Templates struct {
	UpsertSQL          string
	UpsertColumns      []string
	SelectValueSQL     string
	ContainsSQL        string
	UpdateExpirySQL    string
	DeleteByHashSQL    string
	SizeSQL            string
	ExpiredHashesSQL   string
	OldestHashesSQL    string
}

// Render returns the table-qualified templates that don't vary by
// partition/expiry filter flags (those are rendered on demand via the
// Factory's Dialect() accessors, since they're called with different flag
// combinations per call site).
func (f *Factory) Render() Templates {
	return Templates{
		UpsertSQL:        must1(f.dialect.UpsertSQL(f.table)),
		UpsertColumns:    must2(f.dialect.UpsertSQL(f.table)),
		SelectValueSQL:   f.dialect.SelectValueSQL(f.table),
		ContainsSQL:      f.dialect.ContainsSQL(f.table),
		UpdateExpirySQL:  f.dialect.UpdateExpirySQL(f.table),
		DeleteByHashSQL:  f.dialect.DeleteByHashSQL(f.table),
		SizeSQL:          f.dialect.SizeSQL(f.table),
		ExpiredHashesSQL: f.dialect.SelectExpiredHashesSQL(f.table),
		OldestHashesSQL:  f.dialect.SelectOldestHashesSQL(f.table),
	}
}

func must1(s string, _ []string) string { return s }
func must2(_ string, c []string) []string { return c }
