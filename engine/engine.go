// Package engine is the SQL-backed cache engine: the behavioral core
// implementing all kvlite.Cache operations, sliding/parent semantics,
// eviction, and size accounting over a SQL backend opened through
// sqlstore.Factory.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/ilkerhalil/kvlite"
	"github.com/ilkerhalil/kvlite/clock"
	"github.com/ilkerhalil/kvlite/executor"
	"github.com/ilkerhalil/kvlite/random"
	"github.com/ilkerhalil/kvlite/settings"
	"github.com/ilkerhalil/kvlite/sqlstore"
	"go.uber.org/zap"
)

// Engine is the SQL-backed kvlite.Cache implementation.
type Engine struct {
	db       *sql.DB
	factory  *sqlstore.Factory
	settings *settings.Settings
	clock    clock.Clock
	random   random.Source
	pool     *executor.Pool
	log      *zap.Logger

	insertsSinceCleanup atomic.Int64
}

var _ kvlite.Cache = (*Engine)(nil)

// Option configures an Engine at construction.
type Option func(*Engine)

// WithClock overrides the default clock.Default.
func WithClock(c clock.Clock) Option { return func(e *Engine) { e.clock = c } }

// WithRandom overrides the default random.Default.
func WithRandom(r random.Source) Option { return func(e *Engine) { e.random = r } }

// Open opens a connection pool via factory against dsn, ensures the schema
// exists, and returns a ready Engine. The Engine subscribes to settings for
// CacheSchemaName/CacheEntriesTableName changes so the factory's cached
// templates are rebuilt before the next operation completes.
func Open(ctx context.Context, factory *sqlstore.Factory, dsn string, st *settings.Settings, opts ...Option) (*Engine, error) {
	db, err := factory.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := factory.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	e := &Engine{
		db:       db,
		factory:  factory,
		settings: st,
		clock:    clock.Default,
		random:   random.Default,
		log:      st.Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.pool = executor.New(st.MaxConcurrentAsyncOps(), e.log)

	st.Subscribe(func(ch settings.Change) {
		switch ch.Field {
		case "CacheSchemaName", "CacheEntriesTableName":
			factory.Rebind(st.QualifiedTableName())
		}
	})

	return e, nil
}

// Name returns the configured schema-qualified table name, used as a
// lightweight cache identifier.
func (e *Engine) Name() string { return e.settings.QualifiedTableName() }

// CanPeek reports true: the SQL engine's Peek path never mutates expiry.
func (e *Engine) CanPeek() bool { return true }

// Ping verifies the underlying connection pool is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	if err := e.db.PingContext(ctx); err != nil {
		return kvlite.NewError("engine.Ping", kvlite.TransientBackend, err)
	}
	return nil
}

// Close releases the executor and the connection pool.
func (e *Engine) Close() error {
	_ = e.pool.Close()
	return e.db.Close()
}

func (e *Engine) partitionOrDefault(partition string) string {
	if partition == "" {
		return e.settings.DefaultPartition()
	}
	return partition
}

func validateKey(op, partition, key string) error {
	if partition == "" || key == "" {
		return kvlite.NewError(op, kvlite.InvalidArgument, fmt.Errorf("partition and key must be non-empty"))
	}
	return nil
}

func validateParents(op string, parents []kvlite.ParentRef) error {
	if len(parents) > kvlite.MaxParents {
		return kvlite.NewError(op, kvlite.InvalidArgument,
			fmt.Errorf("too many parents: %d > %d", len(parents), kvlite.MaxParents))
	}
	return nil
}

// Contains reports whether a valid entry exists for (partition, key).
// It does not update expiry.
func (e *Engine) Contains(ctx context.Context, partition, key string) (bool, error) {
	partition = e.partitionOrDefault(partition)
	if err := validateKey("engine.Contains", partition, key); err != nil {
		return false, err
	}
	h := e.settings.Hasher().Hash(partition, key)
	now := e.clock.NowUnix()

	row := e.db.QueryRowContext(ctx, e.factory.Dialect().ContainsSQL(e.factory.Table()), h, now)
	var one int
	switch err := row.Scan(&one); {
	case err == sql.ErrNoRows:
		return false, nil
	case err != nil:
		return false, classifyErr(ctx, "engine.Contains", err)
	default:
		return true, nil
	}
}

// Count returns the number of entries visible under mode, scoped to
// partition when non-empty.
func (e *Engine) Count(ctx context.Context, partition string, mode kvlite.CountMode) (int64, error) {
	args := []any{}
	partitionFilter := partition != ""
	if partitionFilter {
		args = append(args, partition)
	}
	if mode == kvlite.ConsiderExpiry {
		args = append(args, e.clock.NowUnix())
	}
	q := e.factory.Dialect().CountSQL(e.factory.Table(), partitionFilter, mode == kvlite.ConsiderExpiry)

	var count int64
	if err := e.db.QueryRowContext(ctx, q, args...).Scan(&count); err != nil {
		return 0, classifyErr(ctx, "engine.Count", err)
	}
	return count, nil
}

// Remove deletes the entry at (partition, key) and transitively cascades to
// every descendant whose parent chain includes it.
func (e *Engine) Remove(ctx context.Context, partition, key string) error {
	partition = e.partitionOrDefault(partition)
	if err := validateKey("engine.Remove", partition, key); err != nil {
		return err
	}
	h := e.settings.Hasher().Hash(partition, key)
	return e.cascadeDelete(ctx, h)
}

// Clear removes entries in scope according to mode: ConsiderExpiry removes
// only expired rows (cleanup), IgnoreExpiry removes everything in scope.
func (e *Engine) Clear(ctx context.Context, partition string, mode kvlite.CountMode) (int64, error) {
	args := []any{}
	partitionFilter := partition != ""
	if partitionFilter {
		args = append(args, partition)
	}
	if mode == kvlite.ConsiderExpiry {
		args = append(args, e.clock.NowUnix())
	}
	q := e.factory.Dialect().ClearSQL(e.factory.Table(), partitionFilter, mode == kvlite.ConsiderExpiry)

	res, err := e.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, classifyErr(ctx, "engine.Clear", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, classifyErr(ctx, "engine.Clear", err)
	}
	return n, nil
}

// GetCacheSizeInBytes returns the sum of LENGTH(value) over all entries,
// including expired ones not yet swept by an eviction pass.
func (e *Engine) GetCacheSizeInBytes(ctx context.Context) (int64, error) {
	var size int64
	if err := e.db.QueryRowContext(ctx, e.factory.Dialect().SizeSQL(e.factory.Table())).Scan(&size); err != nil {
		return 0, classifyErr(ctx, "engine.GetCacheSizeInBytes", err)
	}
	return size, nil
}

func errField(err error) zap.Field { return zap.Error(err) }

func classifyErr(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return kvlite.NewError(op, kvlite.Cancelled, ctx.Err())
	}
	return kvlite.NewError(op, kvlite.TransientBackend, err)
}
