// Package settings is the KVLite configuration surface: a plain record plus
// synchronous change notification, so a connection factory can rebuild its
// cached SQL templates the moment CacheSchemaName or CacheEntriesTableName
// changes, and an engine can re-read DefaultPartition, StaticIntervalInDays,
// InsertionCountBeforeCleanup, and MaxCacheSizeInMB.
//
// The constructor follows the functional-options pattern, generalized to
// KVLite's full option list from a single CleanupInterval knob.
package settings

import (
	"sync"
	"time"

	"github.com/ilkerhalil/kvlite/compressor"
	"github.com/ilkerhalil/kvlite/hasher"
	"github.com/ilkerhalil/kvlite/serializer"
	"go.uber.org/zap"
)

// Settings is KVLite's configuration record.
type Settings struct {
	mu sync.RWMutex

	defaultPartition            string
	staticIntervalInDays        int
	insertionCountBeforeCleanup int
	maxCacheSizeInMB            int64
	cacheSchemaName             string
	cacheEntriesTableName       string
	connectionString            string
	cacheFile                   string
	maxConcurrentAsyncOps       int
	compressionThresholdBytes   int

	serializer serializer.Serializer
	compressor compressor.Compressor
	hasher     hasher.Hasher
	logger     *zap.Logger

	listeners []Listener
}

// Listener is invoked synchronously, before the triggering Set* call
// returns, whenever a watched field changes. Notification happens before
// the next operation completes.
type Listener func(Change)

// Change describes a single field mutation delivered to a Listener.
type Change struct {
	Field string
	Old   any
	New   any
}

// Option configures a Settings at construction time.
type Option func(*Settings)

// New builds a Settings with the given options applied over these
// defaults: DefaultPartition="default", StaticIntervalInDays=30,
// InsertionCountBeforeCleanup=1000, MaxCacheSizeInMB=0 (unlimited),
// CacheSchemaName="", CacheEntriesTableName="kvl_cache_entries",
// MaxConcurrentAsyncOps=runtime-sized by the executor if left 0,
// CompressionThresholdBytes=compressor.DefaultThresholdBytes,
// Serializer=serializer.JSON{}, Compressor=compressor.Noop{},
// Hasher=hasher.XXHash64{}, Logger=zap.NewNop().
func New(opts ...Option) *Settings {
	s := &Settings{
		defaultPartition:            "default",
		staticIntervalInDays:        30,
		insertionCountBeforeCleanup: 1000,
		maxCacheSizeInMB:            0,
		cacheEntriesTableName:       "kvl_cache_entries",
		compressionThresholdBytes:   compressor.DefaultThresholdBytes,
		serializer:                  serializer.JSON{},
		compressor:                  compressor.Noop{},
		hasher:                      hasher.XXHash64{},
		logger:                      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithDefaultPartition sets the partition used when callers omit one.
func WithDefaultPartition(p string) Option {
	return func(s *Settings) { s.defaultPartition = p }
}

// WithStaticIntervalInDays sets the interval AddStatic applies.
func WithStaticIntervalInDays(days int) Option {
	return func(s *Settings) { s.staticIntervalInDays = days }
}

// WithInsertionCountBeforeCleanup sets how many inserts elapse between
// automatic expired-pass sweeps.
func WithInsertionCountBeforeCleanup(n int) Option {
	return func(s *Settings) { s.insertionCountBeforeCleanup = n }
}

// WithMaxCacheSizeInMB sets the soft total-size cap (0 = unlimited).
func WithMaxCacheSizeInMB(mb int64) Option {
	return func(s *Settings) { s.maxCacheSizeInMB = mb }
}

// WithCacheSchemaName sets the SQL schema the cache table lives in.
func WithCacheSchemaName(name string) Option {
	return func(s *Settings) { s.cacheSchemaName = name }
}

// WithCacheEntriesTableName sets the cache table's name.
func WithCacheEntriesTableName(name string) Option {
	return func(s *Settings) { s.cacheEntriesTableName = name }
}

// WithConnectionString sets the backend connection string.
func WithConnectionString(dsn string) Option {
	return func(s *Settings) { s.connectionString = dsn }
}

// WithCacheFile sets the SQLite backend's file path.
func WithCacheFile(path string) Option {
	return func(s *Settings) { s.cacheFile = path }
}

// WithMaxConcurrentAsyncOps caps the fire-and-forget executor's concurrency.
func WithMaxConcurrentAsyncOps(n int) Option {
	return func(s *Settings) { s.maxConcurrentAsyncOps = n }
}

// WithCompressionThresholdBytes sets the uncompressed-size cutoff below
// which payloads are stored raw.
func WithCompressionThresholdBytes(n int) Option {
	return func(s *Settings) { s.compressionThresholdBytes = n }
}

// WithSerializer overrides the default JSON serializer.
func WithSerializer(ser serializer.Serializer) Option {
	return func(s *Settings) { s.serializer = ser }
}

// WithCompressor overrides the default no-op compressor.
func WithCompressor(c compressor.Compressor) Option {
	return func(s *Settings) { s.compressor = c }
}

// WithHasher overrides the default xxHash64 hasher.
func WithHasher(h hasher.Hasher) Option {
	return func(s *Settings) { s.hasher = h }
}

// WithLogger overrides the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// Subscribe registers l to be called synchronously on every subsequent
// Set* mutation. It returns s so it can be chained after New.
func (s *Settings) Subscribe(l Listener) *Settings {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
	return s
}

func (s *Settings) notify(field string, old, nw any) {
	s.mu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.RUnlock()
	for _, l := range listeners {
		l(Change{Field: field, Old: old, New: nw})
	}
}

// DefaultPartition returns the partition used when callers omit one.
func (s *Settings) DefaultPartition() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultPartition
}

// SetDefaultPartition changes the default partition and notifies subscribers.
func (s *Settings) SetDefaultPartition(p string) {
	s.mu.Lock()
	old := s.defaultPartition
	s.defaultPartition = p
	s.mu.Unlock()
	s.notify("DefaultPartition", old, p)
}

// StaticIntervalInDays returns the AddStatic interval, in days.
func (s *Settings) StaticIntervalInDays() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.staticIntervalInDays
}

// StaticIntervalSeconds returns StaticIntervalInDays converted to seconds.
func (s *Settings) StaticIntervalSeconds() int64 {
	return int64(s.StaticIntervalInDays()) * int64((24 * time.Hour).Seconds())
}

// SetStaticIntervalInDays changes the static interval and notifies subscribers.
func (s *Settings) SetStaticIntervalInDays(days int) {
	s.mu.Lock()
	old := s.staticIntervalInDays
	s.staticIntervalInDays = days
	s.mu.Unlock()
	s.notify("StaticIntervalInDays", old, days)
}

// InsertionCountBeforeCleanup returns the insert count that triggers an
// automatic expired-pass sweep.
func (s *Settings) InsertionCountBeforeCleanup() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.insertionCountBeforeCleanup
}

// SetInsertionCountBeforeCleanup changes the cleanup threshold and notifies
// subscribers.
func (s *Settings) SetInsertionCountBeforeCleanup(n int) {
	s.mu.Lock()
	old := s.insertionCountBeforeCleanup
	s.insertionCountBeforeCleanup = n
	s.mu.Unlock()
	s.notify("InsertionCountBeforeCleanup", old, n)
}

// MaxCacheSizeInMB returns the soft total-size cap (0 = unlimited).
func (s *Settings) MaxCacheSizeInMB() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxCacheSizeInMB
}

// SetMaxCacheSizeInMB changes the size cap and notifies subscribers.
func (s *Settings) SetMaxCacheSizeInMB(mb int64) {
	s.mu.Lock()
	old := s.maxCacheSizeInMB
	s.maxCacheSizeInMB = mb
	s.mu.Unlock()
	s.notify("MaxCacheSizeInMB", old, mb)
}

// CacheSchemaName returns the SQL schema the cache table lives in.
func (s *Settings) CacheSchemaName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cacheSchemaName
}

// CacheEntriesTableName returns the cache table's name.
func (s *Settings) CacheEntriesTableName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cacheEntriesTableName
}

// SetCacheSchemaName changes the schema name and notifies subscribers (the
// connection factory listens for this to rebuild its cached SQL templates).
func (s *Settings) SetCacheSchemaName(name string) {
	s.mu.Lock()
	old := s.cacheSchemaName
	s.cacheSchemaName = name
	s.mu.Unlock()
	s.notify("CacheSchemaName", old, name)
}

// SetCacheEntriesTableName changes the table name and notifies subscribers.
func (s *Settings) SetCacheEntriesTableName(name string) {
	s.mu.Lock()
	old := s.cacheEntriesTableName
	s.cacheEntriesTableName = name
	s.mu.Unlock()
	s.notify("CacheEntriesTableName", old, name)
}

// QualifiedTableName returns the schema-qualified table name used in SQL
// templates: "schema.table" if a schema is configured, else just "table".
func (s *Settings) QualifiedTableName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cacheSchemaName == "" {
		return s.cacheEntriesTableName
	}
	return s.cacheSchemaName + "." + s.cacheEntriesTableName
}

// ConnectionString returns the backend connection string.
func (s *Settings) ConnectionString() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connectionString
}

// CacheFile returns the SQLite backend's file path.
func (s *Settings) CacheFile() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cacheFile
}

// MaxConcurrentAsyncOps returns the fire-and-forget executor's concurrency
// cap (0 means the executor picks GOMAXPROCS).
func (s *Settings) MaxConcurrentAsyncOps() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxConcurrentAsyncOps
}

// CompressionThresholdBytes returns the uncompressed-size cutoff below which
// payloads are stored raw.
func (s *Settings) CompressionThresholdBytes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.compressionThresholdBytes
}

// Serializer returns the configured Serializer.
func (s *Settings) Serializer() serializer.Serializer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.serializer
}

// Compressor returns the configured Compressor.
func (s *Settings) Compressor() compressor.Compressor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.compressor
}

// Hasher returns the configured Hasher.
func (s *Settings) Hasher() hasher.Hasher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasher
}

// Logger returns the configured *zap.Logger (never nil).
func (s *Settings) Logger() *zap.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logger
}

// MaxParentKeyCountPerItem returns the compile-time parent bound, exposed
// read-only since it is not configurable.
func (s *Settings) MaxParentKeyCountPerItem() int {
	return maxParents
}

// maxParents mirrors kvlite.MaxParents as a separate constant; this package
// does not import the root package.
const maxParents = 5
